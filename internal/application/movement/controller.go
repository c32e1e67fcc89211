package movement

import (
	"context"
	"fmt"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// Controller aplica transiciones de estado con mutación optimista.
//
// Secuencia por transición:
//  1. chequeo de legalidad contra la tabla de workflow (puro, síncrono);
//  2. snapshot + mutación optimista en la caché (visible de inmediato);
//  3. despacho de la acción remota mapeada al estado destino;
//  4. en éxito: la respuesta remota es canónica, se mergea y se refetchea la
//     lista completa; en fallo: rollback exacto al snapshot.
//
// Los errores de validación local (ErrIllegalTransition, ErrReasonRequired,
// ErrUnsupportedTransition) nunca tocan la caché ni la red.
type Controller struct {
	cache    *Cache
	remote   RemoteActions
	resyncer Resyncer
	notifier Notifier
	log      *logger.Logger
}

// NewController construye el controlador del motor.
func NewController(cache *Cache, remote RemoteActions, resyncer Resyncer, notifier Notifier, log *logger.Logger) *Controller {
	return &Controller{cache: cache, remote: remote, resyncer: resyncer, notifier: notifier, log: log}
}

// ApplyTransition intenta llevar el movimiento id al estado target. reason
// solo aplica cuando target es cancelled (la captura obligatoria la hace
// CancellationFlow antes de llegar aquí).
//
// Devuelve la entidad confirmada por el remoto, o un error de la taxonomía:
// ErrIllegalTransition, ErrUnsupportedTransition, ErrRemoteFailure,
// ErrStaleRequest, ErrNotFound.
func (ctl *Controller) ApplyTransition(ctx context.Context, id string, target workflow.Status, reason string) (*entity.StockMovement, error) {
	current, ok := ctl.cache.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	// Legalidad: puro y síncrono, antes de cualquier mutación o red.
	if !workflow.CanTransition(current.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, target)
	}
	// Estado legal pero sin acción mapeada: fallo tipado, sin tocar nada.
	if !ctl.hasAction(target) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedTransition, target)
	}

	// Snapshot + mutación optimista. Desde aquí la UI ya ve el estado nuevo.
	snap, token, ok := ctl.cache.Begin(id, target, reason)
	if !ok {
		return nil, domain.ErrNotFound
	}

	res, err := ctl.dispatch(ctx, id, target, reason)
	if err != nil || !res.Success {
		// Rollback exacto; si la continuación es obsoleta, no se toca nada.
		settled := ctl.cache.Settle(id, token, nil, snap, false)
		msg := remoteErrorMessage(res, err)
		if settled {
			ctl.notifier.Error(current.CompanyID, "no se pudo cambiar el estado: "+msg)
		}
		ctl.log.Warn().
			Str("movement_id", id).
			Str("target", string(target)).
			Bool("stale", !settled).
			Str("cause", msg).
			Msg("transición revertida")
		if !settled {
			return nil, domain.ErrStaleRequest
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteFailure, msg)
	}

	if !ctl.cache.Settle(id, token, res.Data, snap, true) {
		// Una petición más reciente ya es dueña de la entidad.
		return nil, domain.ErrStaleRequest
	}

	// La lista circundante se corrige refetcheando, no mergeando a mano.
	if list, err := ctl.resyncer.Resync(ctx, current.CompanyID); err == nil {
		ctl.cache.ReplaceCompany(current.CompanyID, list)
	} else {
		ctl.log.Warn().Err(err).Str("company_id", current.CompanyID).Msg("resync tras transición")
	}

	ctl.notifier.Success(current.CompanyID, "estado actualizado a "+string(target))
	return res.Data, nil
}

// hasAction indica si el estado destino tiene acción remota mapeada.
func (ctl *Controller) hasAction(target workflow.Status) bool {
	switch target {
	case workflow.StatusPending, workflow.StatusApproved, workflow.StatusCompleted, workflow.StatusCancelled:
		return true
	}
	return false
}

// dispatch invoca la acción remota del estado destino (una por estado).
func (ctl *Controller) dispatch(ctx context.Context, id string, target workflow.Status, reason string) (Result, error) {
	switch target {
	case workflow.StatusPending:
		return ctl.remote.SetPending(ctx, id)
	case workflow.StatusApproved:
		return ctl.remote.SetApproved(ctx, id)
	case workflow.StatusCompleted:
		return ctl.remote.SetCompleted(ctx, id)
	case workflow.StatusCancelled:
		return ctl.remote.SetCancelled(ctx, id, reason)
	}
	return Result{}, domain.ErrUnsupportedTransition
}

func remoteErrorMessage(res Result, err error) string {
	if err != nil {
		return err.Error()
	}
	if res.Error != "" {
		return res.Error
	}
	return "el servicio remoto reportó fallo"
}
