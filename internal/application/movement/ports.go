// Package movement implementa el motor de workflow de movimientos de stock:
// mutación optimista sobre una caché local, despacho a las acciones remotas,
// merge canónico en éxito y rollback exacto en fallo.
package movement

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// Result respuesta canónica del servicio remoto de persistencia.
// Success=false con Error poblado es un fallo reportado por el servicio;
// un error de transporte llega por el error de Go del método.
type Result struct {
	Success bool
	Data    *entity.StockMovement
	Error   string
}

// RemoteActions es el colaborador remoto: una acción por estado destino más
// CRUD y operaciones bulk. El motor lo trata como autoridad final; lo que
// devuelva en Data se considera canónico y pisa la suposición optimista.
type RemoteActions interface {
	SetPending(ctx context.Context, id string) (Result, error)
	SetApproved(ctx context.Context, id string) (Result, error)
	SetCompleted(ctx context.Context, id string) (Result, error)
	SetCancelled(ctx context.Context, id, reason string) (Result, error)

	Create(ctx context.Context, m *entity.StockMovement) (Result, error)
	Update(ctx context.Context, m *entity.StockMovement) (Result, error)
	Delete(ctx context.Context, id string) (Result, error)

	// Las operaciones bulk llevan la empresa del llamador: el servicio rechaza
	// la operación entera si algún id pertenece a otra empresa.
	BulkSetStatus(ctx context.Context, companyID string, ids []string, status workflow.Status) (Result, error)
	BulkDelete(ctx context.Context, companyID string, ids []string) (Result, error)
}

// Resyncer recarga la lista completa de movimientos de una empresa desde el
// servidor. Tras una transición confirmada o una operación bulk no se intenta
// hacer merge parcial: la corrección se obtiene refetcheando.
type Resyncer interface {
	Resync(ctx context.Context, companyID string) ([]*entity.StockMovement, error)
}

// Notifier colaborador de notificaciones al operador (toast). El motor emite
// éxito tras confirmar y error tras un rollback; nunca antes.
type Notifier interface {
	Success(companyID, message string)
	Error(companyID, message string)
}

// ReasonPrompt colaborador síncrono que captura el motivo de cancelación.
// ok=false significa que el operador abortó: no se intenta transición alguna.
type ReasonPrompt interface {
	RequestReason(ctx context.Context, m *entity.StockMovement) (reason string, ok bool)
}
