package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// Difference diferencia entre cantidad real y cantidad previa, con su clase.
type Difference struct {
	Value decimal.Decimal
	Class string // entity.MovementIncrease | MovementDecrease | MovementNoChange
}

// ComputeDifference calcula actual - previous y clasifica el movimiento por el
// signo. Función pura: la regla "diferencia != 0 exige motivo" la impone el
// llamador antes de cualquier mutación o llamada remota.
func ComputeDifference(previous, actual decimal.Decimal) Difference {
	diff := actual.Sub(previous)
	class := entity.MovementNoChange
	switch {
	case diff.IsPositive():
		class = entity.MovementIncrease
	case diff.IsNegative():
		class = entity.MovementDecrease
	}
	return Difference{Value: diff, Class: class}
}

// IsZero indica si no hubo cambio de cantidad.
func (d Difference) IsZero() bool {
	return d.Value.IsZero()
}
