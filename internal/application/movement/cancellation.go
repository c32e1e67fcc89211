package movement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// MaxReasonLength longitud máxima del motivo de cancelación.
const MaxReasonLength = 250

// CancellationFlow orquesta la única transición con canal lateral síncrono:
// antes de invocar cancel se captura un motivo obligatorio y acotado.
type CancellationFlow struct {
	cache      *Cache
	controller *Controller
}

// NewCancellationFlow construye el flujo de cancelación.
func NewCancellationFlow(cache *Cache, controller *Controller) *CancellationFlow {
	return &CancellationFlow{cache: cache, controller: controller}
}

// RequestCancellation pide el motivo al prompt y, si el operador no aborta,
// delega en el controlador con destino cancelled. Si aborta, no se intenta
// transición alguna y no se toca estado: aborted=true con entidad y error nil.
func (f *CancellationFlow) RequestCancellation(ctx context.Context, id string, prompt ReasonPrompt) (m *entity.StockMovement, aborted bool, err error) {
	current, ok := f.cache.Get(id)
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	// La legalidad se verifica antes de pedir el motivo: a un operador no se
	// le pregunta por una cancelación que la máquina de estados va a rechazar.
	if !workflow.CanTransition(current.Status, workflow.StatusCancelled) {
		return nil, false, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, workflow.StatusCancelled)
	}

	reason, ok := prompt.RequestReason(ctx, &current)
	if !ok {
		return nil, true, nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, false, fmt.Errorf("%w: el motivo de cancelación no puede estar vacío", domain.ErrInvalidInput)
	}
	if len(reason) > MaxReasonLength {
		return nil, false, fmt.Errorf("%w: el motivo supera %d caracteres", domain.ErrInvalidInput, MaxReasonLength)
	}

	confirmed, err := f.controller.ApplyTransition(ctx, id, workflow.StatusCancelled, reason)
	if err != nil {
		return nil, false, err
	}
	return confirmed, false, nil
}

// StaticReasonPrompt prompt resuelto de antemano: el motivo ya viene capturado
// (por ejemplo del cuerpo de la petición HTTP). Abort=true simula que el
// operador cerró el diálogo sin confirmar.
type StaticReasonPrompt struct {
	Reason string
	Abort  bool
}

// RequestReason implementa ReasonPrompt.
func (p StaticReasonPrompt) RequestReason(ctx context.Context, m *entity.StockMovement) (string, bool) {
	if p.Abort {
		return "", false
	}
	return p.Reason, true
}
