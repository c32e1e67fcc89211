// Package notify implementa el colaborador de notificaciones al operador.
package notify

import (
	"sync"

	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

var _ movement.Notifier = (*LogNotifier)(nil)

// Notice una notificación emitida por el motor hacia el operador.
type Notice struct {
	Level   string // success | error
	Message string
}

// LogNotifier registra las notificaciones del motor en el log estructurado y
// retiene la última por empresa para que la capa HTTP pueda consultarla.
type LogNotifier struct {
	log *logger.Logger

	mu   sync.Mutex
	last map[string]Notice // companyID -> última notificación
}

// NewLogNotifier construye el notificador respaldado por el logger.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log, last: make(map[string]Notice)}
}

// Success registra una confirmación de operación.
func (n *LogNotifier) Success(companyID, message string) {
	n.record(companyID, Notice{Level: "success", Message: message})
	n.log.Info().Str("company_id", companyID).Msg(message)
}

// Error registra un fallo ya revertido por el motor.
func (n *LogNotifier) Error(companyID, message string) {
	n.record(companyID, Notice{Level: "error", Message: message})
	n.log.Error().Str("company_id", companyID).Msg(message)
}

// Last devuelve la última notificación de la empresa, si hay una.
func (n *LogNotifier) Last(companyID string) (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notice, ok := n.last[companyID]
	return notice, ok
}

func (n *LogNotifier) record(companyID string, notice Notice) {
	n.mu.Lock()
	n.last[companyID] = notice
	n.mu.Unlock()
}
