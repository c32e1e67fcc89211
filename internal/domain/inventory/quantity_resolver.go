package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// Resolution resultado de resolver la cantidad previa de una línea de stock.
type Resolution struct {
	Quantity decimal.Decimal
	SKU      string // del variante si resolvió por variante, si no del producto
}

// ResolvePreviousQuantity resuelve la cantidad previa de un producto (o de uno
// de sus variantes) en una tienda concreta. El orden de precedencia es de
// carga y debe conservarse exactamente:
//
//  1. Variante seleccionado: localizar el variante (por título o valor),
//     normalizar su stock por tienda y buscar la entrada de la tienda destino.
//     Si hay coincidencia, esa es la cantidad; el SKU del variante pasa a ser
//     el SKU de la línea.
//  2. Si el paso 1 no resolvió y NO hay cantidad aportada por el llamador:
//     buscar en el stock por tienda del producto (misma normalización).
//  3. En último término: la cantidad del llamador si existe, si no la
//     cantidad agregada del producto, si no cero.
//
// Los registros del upstream llegan con formas inconsistentes (lista vs.
// wrapper, id crudo vs. objeto poblado); toda la defensa de forma vive en
// ParseStoreStocks, no aquí.
func ResolvePreviousQuantity(product *entity.Product, variantSelector, storeID string, callerQty *decimal.Decimal) Resolution {
	if product == nil {
		if callerQty != nil {
			return Resolution{Quantity: *callerQty}
		}
		return Resolution{Quantity: decimal.Zero}
	}

	res := Resolution{SKU: product.SKU}

	// Paso 1: variante seleccionado.
	if v := product.FindVariant(variantSelector); v != nil {
		if v.SKU != "" {
			res.SKU = v.SKU
		}
		if entries, err := ParseStoreStocks(v.StoreStocks); err == nil {
			if e, ok := findStore(entries, storeID); ok {
				res.Quantity = e.Quantity
				return res
			}
		}
	}

	// Paso 2: stock por tienda del producto, solo si el llamador no aportó
	// cantidad.
	if callerQty == nil {
		if entries, err := ParseStoreStocks(product.StoreStocks); err == nil {
			if e, ok := findStore(entries, storeID); ok {
				res.Quantity = e.Quantity
				return res
			}
		}
	}

	// Paso 3: llamador → agregado del producto → cero.
	if callerQty != nil {
		res.Quantity = *callerQty
		return res
	}
	res.Quantity = product.Quantity
	return res
}
