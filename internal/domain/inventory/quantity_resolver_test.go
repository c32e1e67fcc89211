package inventory

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func resolverProduct() *entity.Product {
	return &entity.Product{
		ID:       "p-1",
		SKU:      "SKU-BASE",
		Quantity: dec("100"),
		StoreStocks: json.RawMessage(`[
			{"store": "st-1", "quantity": "40"},
			{"store": "st-2", "quantity": "15"}
		]`),
		Variants: []entity.Variant{
			{
				Title: "Red/L",
				Value: "rojo-grande",
				SKU:   "SKU-RED-L",
				StoreStocks: json.RawMessage(`{
					"storeWiseStock": [{"store": {"_id": "st-1"}, "quantity": "8"}]
				}`),
			},
			{Title: "Blue/S", SKU: "SKU-BLUE-S"},
		},
	}
}

func TestResolve_VarianteConStockEnTienda(t *testing.T) {
	res := ResolvePreviousQuantity(resolverProduct(), "Red/L", "st-1", nil)
	assert.True(t, res.Quantity.Equal(dec("8")), "debe ganar la entrada del variante")
	assert.Equal(t, "SKU-RED-L", res.SKU)
}

func TestResolve_VariantePorValor(t *testing.T) {
	res := ResolvePreviousQuantity(resolverProduct(), "rojo-grande", "st-1", nil)
	assert.True(t, res.Quantity.Equal(dec("8")))
	assert.Equal(t, "SKU-RED-L", res.SKU)
}

func TestResolve_VarianteSinEntradaCaeAlProducto(t *testing.T) {
	// Red/L no tiene stock en st-2: sin cantidad del llamador se cae al stock
	// por tienda del producto, pero el SKU del variante se conserva.
	res := ResolvePreviousQuantity(resolverProduct(), "Red/L", "st-2", nil)
	assert.True(t, res.Quantity.Equal(dec("15")))
	assert.Equal(t, "SKU-RED-L", res.SKU)
}

func TestResolve_VarianteSinEntradaYConCallerQty(t *testing.T) {
	// Con cantidad del llamador, el stock por tienda del producto NO se
	// consulta: el llamador es el siguiente en la precedencia.
	caller := dec("99")
	res := ResolvePreviousQuantity(resolverProduct(), "Red/L", "st-2", &caller)
	assert.True(t, res.Quantity.Equal(dec("99")))
}

func TestResolve_SinVarianteUsaStockPorTienda(t *testing.T) {
	res := ResolvePreviousQuantity(resolverProduct(), "", "st-2", nil)
	assert.True(t, res.Quantity.Equal(dec("15")))
	assert.Equal(t, "SKU-BASE", res.SKU)
}

func TestResolve_TiendaSinEntradaUsaAgregado(t *testing.T) {
	res := ResolvePreviousQuantity(resolverProduct(), "", "st-nueva", nil)
	assert.True(t, res.Quantity.Equal(dec("100")), "último recurso: agregado del producto")
}

func TestResolve_CallerQtyGanaAlAgregado(t *testing.T) {
	caller := dec("55")
	res := ResolvePreviousQuantity(resolverProduct(), "", "st-nueva", &caller)
	assert.True(t, res.Quantity.Equal(dec("55")))
}

func TestResolve_ProductoSinNada(t *testing.T) {
	p := &entity.Product{ID: "p-2", SKU: "X"}
	res := ResolvePreviousQuantity(p, "", "st-1", nil)
	assert.True(t, res.Quantity.IsZero())
	assert.Equal(t, "X", res.SKU)
}

func TestResolve_ProductoNil(t *testing.T) {
	res := ResolvePreviousQuantity(nil, "", "st-1", nil)
	assert.True(t, res.Quantity.IsZero())

	caller := dec("3")
	res = ResolvePreviousQuantity(nil, "", "st-1", &caller)
	assert.True(t, res.Quantity.Equal(dec("3")))
}

func TestResolve_VarianteSinSKUConservaElDelProducto(t *testing.T) {
	p := resolverProduct()
	p.Variants = append(p.Variants, entity.Variant{Title: "Green/M"})
	res := ResolvePreviousQuantity(p, "Green/M", "st-1", nil)
	assert.Equal(t, "SKU-BASE", res.SKU)
}

func TestResolve_StockMalformadoNoRompe(t *testing.T) {
	p := resolverProduct()
	p.StoreStocks = json.RawMessage(`"basura"`)
	res := ResolvePreviousQuantity(p, "", "st-1", nil)
	// Forma irreconocible: se sigue la precedencia hacia el agregado.
	assert.True(t, res.Quantity.Equal(dec("100")))
}
