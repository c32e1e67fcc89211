package movement

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// BulkAction acción aplicable a una selección.
type BulkAction string

const (
	BulkActionStatus BulkAction = "status"
	BulkActionDelete BulkAction = "delete"
)

// PartialFailurePolicy qué hacer cuando el servicio reporta un fallo parcial
// en una operación bulk (ej. 3 de 5 actualizados). El comportamiento de
// referencia no lo definía; aquí es una decisión de configuración explícita.
type PartialFailurePolicy string

const (
	// PartialFailureReport: el fallo se reporta al operador tal cual lo
	// describe el servicio, y la verdad se recupera con el resync.
	PartialFailureReport PartialFailurePolicy = "report"
	// PartialFailureAtomic: todo fallo parcial se trata como fallo total de
	// la operación (el adaptador postgres ejecuta el bulk en una sentencia,
	// así que con ese backend la atomicidad es real).
	PartialFailureAtomic PartialFailurePolicy = "atomic"
)

// Coordinator aplica una acción a toda la selección vigente con UNA sola
// llamada bulk (nunca N llamadas individuales) y después, pase lo que pase,
// limpia la selección y fuerza un resync completo: tras un bulk no se intenta
// mergear resultados parciales en la caché optimista.
//
// La selección se mantiene por empresa: peticiones concurrentes de empresas
// distintas nunca comparten ids, y ApplyBulk toma y vacía la selección de su
// empresa en un solo paso bajo el lock.
type Coordinator struct {
	mu        sync.Mutex
	selection map[string]map[string]struct{} // companyID -> ids

	cache    *Cache
	remote   RemoteActions
	resyncer Resyncer
	notifier Notifier
	policy   PartialFailurePolicy
	log      *logger.Logger
}

// NewCoordinator construye el coordinador bulk.
func NewCoordinator(cache *Cache, remote RemoteActions, resyncer Resyncer, notifier Notifier, policy PartialFailurePolicy, log *logger.Logger) *Coordinator {
	if policy == "" {
		policy = PartialFailureReport
	}
	return &Coordinator{
		selection: make(map[string]map[string]struct{}),
		cache:     cache,
		remote:    remote,
		resyncer:  resyncer,
		notifier:  notifier,
		policy:    policy,
		log:       log,
	}
}

// Select agrega ids a la selección vigente de una empresa.
func (co *Coordinator) Select(companyID string, ids ...string) {
	co.mu.Lock()
	defer co.mu.Unlock()
	sel, ok := co.selection[companyID]
	if !ok {
		sel = make(map[string]struct{})
		co.selection[companyID] = sel
	}
	for _, id := range ids {
		sel[id] = struct{}{}
	}
}

// Deselect quita ids de la selección de una empresa.
func (co *Coordinator) Deselect(companyID string, ids ...string) {
	co.mu.Lock()
	defer co.mu.Unlock()
	for _, id := range ids {
		delete(co.selection[companyID], id)
	}
}

// Selected devuelve los ids actualmente seleccionados por una empresa.
func (co *Coordinator) Selected(companyID string) []string {
	co.mu.Lock()
	defer co.mu.Unlock()
	out := make([]string, 0, len(co.selection[companyID]))
	for id := range co.selection[companyID] {
		out = append(out, id)
	}
	return out
}

// take consume atómicamente la selección de una empresa: devuelve los ids y la
// deja vacía. Una petición concurrente que seleccione después de este punto
// arranca una selección nueva, nunca se cuela en la operación en curso.
func (co *Coordinator) take(companyID string) []string {
	co.mu.Lock()
	defer co.mu.Unlock()
	sel := co.selection[companyID]
	delete(co.selection, companyID)
	out := make([]string, 0, len(sel))
	for id := range sel {
		out = append(out, id)
	}
	return out
}

// ApplyBulk aplica action a la selección vigente de la empresa. targetStatus
// solo se usa con BulkActionStatus y debe ser un estado válido. La selección
// se consume al entrar y la lista se resincroniza incondicionalmente, haya
// ido bien o mal.
func (co *Coordinator) ApplyBulk(ctx context.Context, companyID string, action BulkAction, targetStatus workflow.Status) error {
	// Validación local antes de consumir la selección: un rechazo local la
	// deja intacta.
	switch action {
	case BulkActionStatus:
		if !targetStatus.Valid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, targetStatus)
		}
	case BulkActionDelete:
	default:
		return fmt.Errorf("%w: acción bulk %q", domain.ErrInvalidInput, action)
	}

	ids := co.take(companyID)
	if len(ids) == 0 {
		return nil
	}

	var res Result
	var err error
	if action == BulkActionStatus {
		res, err = co.remote.BulkSetStatus(ctx, companyID, ids, targetStatus)
	} else {
		res, err = co.remote.BulkDelete(ctx, companyID, ids)
	}

	// Incondicional: refetchear, incluso tras fallo (la selección ya se
	// consumió al entrar).
	if list, rerr := co.resyncer.Resync(ctx, companyID); rerr == nil {
		co.cache.ReplaceCompany(companyID, list)
	} else {
		co.log.Warn().Err(rerr).Str("company_id", companyID).Msg("resync tras bulk")
	}

	if err != nil || !res.Success {
		msg := remoteErrorMessage(res, err)
		co.notifier.Error(companyID, "operación masiva fallida: "+msg)
		if co.policy == PartialFailureAtomic {
			return fmt.Errorf("%w: %s", domain.ErrRemoteFailure, msg)
		}
		// report: el detalle ya se notificó por ítem tal como lo describe el
		// servicio; la lista quedó corregida por el resync.
		return nil
	}

	co.notifier.Success(companyID, fmt.Sprintf("operación masiva aplicada a %d movimientos", len(ids)))
	return nil
}
