// Package inventory contiene los servicios de dominio puros del motor de
// movimientos: normalización de stock por tienda, resolución de cantidad
// previa y cálculo de diferencia.
package inventory

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StoreStockEntry una entrada normalizada de stock por tienda.
type StoreStockEntry struct {
	StoreID  string
	Quantity decimal.Decimal
}

// StoreRef referencia a una tienda tal como llega del upstream: a veces es el
// id crudo ("st-1") y a veces un objeto poblado ({"_id": "st-1", ...}).
// UnmarshalJSON acepta ambas formas y expone siempre el id extraído.
type StoreRef struct {
	ID string
}

// UnmarshalJSON implementa la unión etiquetada id crudo | objeto poblado.
func (r *StoreRef) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		r.ID = raw
		return nil
	}
	var populated struct {
		ID  string `json:"_id"`
		Alt string `json:"id"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	if populated.ID != "" {
		r.ID = populated.ID
	} else {
		r.ID = populated.Alt
	}
	return nil
}

// rawStockEntry forma cruda de una entrada de stock por tienda.
type rawStockEntry struct {
	Store    StoreRef        `json:"store"`
	Quantity decimal.Decimal `json:"quantity"`
}

// wrappedStockList forma wrapper: la lista viene bajo una clave anidada.
// El upstream usa "storeWiseStock" o "stocks" según el endpoint.
type wrappedStockList struct {
	StoreWiseStock []rawStockEntry `json:"storeWiseStock"`
	Stocks         []rawStockEntry `json:"stocks"`
}

// ParseStoreStocks normaliza la representación dual del stock por tienda
// (lista plana | objeto wrapper) en una única lista de entradas con el id de
// tienda ya extraído. Es la ÚNICA función de normalización: todo lo que
// consuma stock por tienda debe pasar por aquí.
//
// raw vacío o null devuelve lista vacía sin error; un JSON que no encaja en
// ninguna de las dos formas devuelve el error de parseo de la forma wrapper.
func ParseStoreStocks(raw json.RawMessage) ([]StoreStockEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var flat []rawStockEntry
	if err := json.Unmarshal(raw, &flat); err == nil {
		return normalize(flat), nil
	}

	var wrapped wrappedStockList
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.StoreWiseStock) > 0 {
		return normalize(wrapped.StoreWiseStock), nil
	}
	return normalize(wrapped.Stocks), nil
}

func normalize(entries []rawStockEntry) []StoreStockEntry {
	out := make([]StoreStockEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, StoreStockEntry{StoreID: e.Store.ID, Quantity: e.Quantity})
	}
	return out
}

// findStore busca en la lista normalizada la entrada de la tienda destino.
func findStore(entries []StoreStockEntry, storeID string) (StoreStockEntry, bool) {
	for _, e := range entries {
		if e.StoreID == storeID {
			return e, true
		}
	}
	return StoreStockEntry{}, false
}
