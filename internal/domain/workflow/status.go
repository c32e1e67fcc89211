// Package workflow define la máquina de estados de los movimientos de stock
// (ajustes y traslados). La tabla de transiciones es cerrada: toda arista que
// no aparezca aquí está prohibida.
package workflow

// Status estado del ciclo de vida de un movimiento de stock.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions tabla cerrada de aristas permitidas. completed y cancelled son
// terminales: no tienen entrada en el mapa.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled, StatusCompleted},
	StatusApproved: {StatusPending, StatusCancelled, StatusCompleted},
}

// NextStates devuelve los estados destino legales desde current. Para estados
// terminales (o desconocidos) devuelve slice vacío. Cualquier listado de
// opciones de transición (API, UI) debe construirse SOLO desde esta función
// para evitar que la tabla se duplique y se desincronice.
func NextStates(current Status) []Status {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition indica si la arista from → to existe en la tabla.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si un estado no tiene aristas de salida.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Valid indica si s es uno de los cuatro estados conocidos.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus convierte un string a Status. ok=false si no es un estado conocido.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.Valid()
}
