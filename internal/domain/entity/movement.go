package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// Clases de movimiento según el signo de la diferencia.
const (
	MovementIncrease = "increase"
	MovementDecrease = "decrease"
	MovementNoChange = "no-change"
)

// Tipos de movimiento de stock.
const (
	MovementKindAdjustment = "adjustment" // corrección de stock en una tienda
	MovementKindTransfer   = "transfer"   // traslado entre tiendas
)

// StockMovement representa un ajuste de stock o un traslado entre tiendas.
// Ambos comparten el mismo motor: máquina de estados, cantidad previa resuelta
// en el momento del envío y diferencia derivada.
//
// PreviousQuantity es un hecho puntual: se resuelve UNA vez al crear o editar
// el movimiento (QuantityResolver) y nunca se recalcula después desde otra
// fuente. Difference se recalcula siempre que cambien sus entradas y no se
// persiste de forma independiente de ellas.
type StockMovement struct {
	ID        string
	CompanyID string
	Kind      string // adjustment | transfer
	Status    workflow.Status

	// Referencias de tienda: StoreID para ajustes; FromStoreID/ToStoreID para
	// traslados (deben diferir, se valida al crear/editar).
	StoreID     string
	FromStoreID string
	ToStoreID   string

	ProductID    string
	VariantTitle string // vacío si el movimiento es sobre el producto base
	SKU          string // del variante si hay uno seleccionado, si no del producto

	PreviousQuantity decimal.Decimal
	ActualQuantity   decimal.Decimal // ajustes: cantidad real contada; traslados: cantidad a mover
	Difference       decimal.Decimal // ActualQuantity - PreviousQuantity (solo ajustes)
	MovementClass    string          // increase | decrease | no-change

	Reason          string // obligatorio cuando Difference != 0
	RejectionReason string // capturado solo al pasar a cancelled
	Notes           string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deletable indica si el movimiento puede eliminarse: solo en pending o en
// cancelled (terminal pero eliminable). approved/completed son inmutables
// salvo por transiciones legales.
func (m *StockMovement) Deletable() bool {
	return m.Status == workflow.StatusPending || m.Status == workflow.StatusCancelled
}

// IsTransfer indica si el movimiento es un traslado entre tiendas.
func (m *StockMovement) IsTransfer() bool {
	return m.Kind == MovementKindTransfer
}
