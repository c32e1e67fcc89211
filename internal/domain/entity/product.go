package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con stock por tienda.
//
// StoreStocks llega del upstream en dos formas según el endpoint que lo
// produjo: una lista plana de entradas {store, quantity} o un objeto wrapper
// que contiene esa lista bajo una clave anidada. Por eso se conserva como
// json.RawMessage y la normalización vive en el dominio de inventario
// (ParseStoreStocks), no repartida por el código.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Quantity    decimal.Decimal // cantidad agregada (último recurso del resolver)
	StoreStocks json.RawMessage // stock por tienda, forma dual (lista o wrapper)
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant representa una combinación de atributos de un producto (talla/color)
// con su propio SKU y stock por tienda. StoreStocks tiene la misma forma dual
// que en Product.
type Variant struct {
	Title       string // ej. "Red/L"
	Value       string // valor alternativo de identificación
	SKU         string
	StoreStocks json.RawMessage
}

// FindVariant busca un variante por título o por valor. Devuelve nil si no hay
// coincidencia.
func (p *Product) FindVariant(selector string) *Variant {
	if selector == "" {
		return nil
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Title == selector || v.Value == selector {
			return v
		}
	}
	return nil
}
