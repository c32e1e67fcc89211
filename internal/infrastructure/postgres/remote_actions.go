package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

var (
	_ movement.RemoteActions = (*RemoteActions)(nil)
	_ movement.Resyncer      = (*RemoteActions)(nil)
)

// RemoteActions implementación autoritativa del colaborador remoto sobre el
// repositorio de movimientos. La legalidad de cada transición se vuelve a
// verificar aquí contra el estado persistido: la caché optimista del motor es
// una suposición, no una autoridad.
type RemoteActions struct {
	repo repository.MovementRepository
	log  *logger.Logger
}

// NewRemoteActions construye el adaptador autoritativo de acciones remotas.
func NewRemoteActions(repo repository.MovementRepository, log *logger.Logger) *RemoteActions {
	return &RemoteActions{repo: repo, log: log}
}

// SetPending devuelve un movimiento aprobado a pendiente.
func (a *RemoteActions) SetPending(ctx context.Context, id string) (movement.Result, error) {
	return a.setStatus(ctx, id, workflow.StatusPending, "")
}

// SetApproved aprueba un movimiento pendiente.
func (a *RemoteActions) SetApproved(ctx context.Context, id string) (movement.Result, error) {
	return a.setStatus(ctx, id, workflow.StatusApproved, "")
}

// SetCompleted completa un movimiento y aplica su efecto sobre el stock.
func (a *RemoteActions) SetCompleted(ctx context.Context, id string) (movement.Result, error) {
	return a.setStatus(ctx, id, workflow.StatusCompleted, "")
}

// SetCancelled cancela un movimiento registrando el motivo del operador.
func (a *RemoteActions) SetCancelled(ctx context.Context, id, reason string) (movement.Result, error) {
	return a.setStatus(ctx, id, workflow.StatusCancelled, reason)
}

func (a *RemoteActions) setStatus(ctx context.Context, id string, target workflow.Status, reason string) (movement.Result, error) {
	current, err := a.repo.GetByID(id)
	if err != nil {
		return movement.Result{}, fmt.Errorf("load movement %s: %w", id, err)
	}
	if current == nil {
		return movement.Result{Error: "movimiento no encontrado"}, nil
	}
	if !workflow.CanTransition(current.Status, target) {
		a.log.Warn().
			Str("movement_id", id).
			Str("from", string(current.Status)).
			Str("to", string(target)).
			Msg("transición rechazada por el servidor")
		return movement.Result{
			Error: fmt.Sprintf("transición ilegal: %s -> %s", current.Status, target),
		}, nil
	}
	updated, err := a.repo.UpdateStatus(id, target, reason)
	if err != nil {
		return movement.Result{}, fmt.Errorf("update status %s: %w", id, err)
	}
	return movement.Result{Success: true, Data: updated}, nil
}

// Create persiste un movimiento nuevo. El servidor asigna ID y marcas de
// tiempo; el estado inicial siempre es pending sin importar lo enviado.
func (a *RemoteActions) Create(ctx context.Context, m *entity.StockMovement) (movement.Result, error) {
	created := *m
	created.ID = uuid.New().String()
	created.Status = workflow.StatusPending
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := a.repo.Create(&created); err != nil {
		return movement.Result{}, fmt.Errorf("create movement: %w", err)
	}
	return movement.Result{Success: true, Data: &created}, nil
}

// Update reemplaza los campos editables de un movimiento pendiente.
func (a *RemoteActions) Update(ctx context.Context, m *entity.StockMovement) (movement.Result, error) {
	current, err := a.repo.GetByID(m.ID)
	if err != nil {
		return movement.Result{}, fmt.Errorf("load movement %s: %w", m.ID, err)
	}
	if current == nil {
		return movement.Result{Error: "movimiento no encontrado"}, nil
	}
	if current.Status != workflow.StatusPending {
		return movement.Result{Error: "solo los movimientos pendientes son editables"}, nil
	}
	updated := *m
	updated.Status = current.Status
	updated.CreatedAt = current.CreatedAt
	updated.CreatedBy = current.CreatedBy
	updated.UpdatedAt = time.Now().UTC()
	if err := a.repo.Update(&updated); err != nil {
		return movement.Result{}, fmt.Errorf("update movement: %w", err)
	}
	return movement.Result{Success: true, Data: &updated}, nil
}

// Delete elimina un movimiento si su estado lo permite.
func (a *RemoteActions) Delete(ctx context.Context, id string) (movement.Result, error) {
	current, err := a.repo.GetByID(id)
	if err != nil {
		return movement.Result{}, fmt.Errorf("load movement %s: %w", id, err)
	}
	if current == nil {
		return movement.Result{Error: "movimiento no encontrado"}, nil
	}
	if !current.Deletable() {
		return movement.Result{
			Error: fmt.Sprintf("un movimiento en estado %s no puede eliminarse", current.Status),
		}, nil
	}
	if err := a.repo.Delete(id); err != nil {
		return movement.Result{}, fmt.Errorf("delete movement: %w", err)
	}
	return movement.Result{Success: true}, nil
}

// BulkSetStatus aplica la transición a toda la selección en una sola llamada.
// Cada ID se verifica contra la empresa del llamador y contra la tabla de
// transiciones antes de ejecutar; con un solo id ajeno o ilegal la operación
// entera se rechaza sin tocar nada.
func (a *RemoteActions) BulkSetStatus(ctx context.Context, companyID string, ids []string, status workflow.Status) (movement.Result, error) {
	for _, id := range ids {
		current, err := a.loadOwned(id, companyID)
		if err != nil {
			return movement.Result{}, err
		}
		if current == nil {
			return movement.Result{Error: fmt.Sprintf("movimiento %s no encontrado", id)}, nil
		}
		if !workflow.CanTransition(current.Status, status) {
			return movement.Result{
				Error: fmt.Sprintf("movimiento %s: transición ilegal %s -> %s", id, current.Status, status),
			}, nil
		}
	}
	if err := a.repo.BulkUpdateStatus(companyID, ids, status); err != nil {
		return movement.Result{}, fmt.Errorf("bulk update status: %w", err)
	}
	return movement.Result{Success: true}, nil
}

// BulkDelete elimina toda la selección en una sola llamada. Solo movimientos
// propios y eliminables; con uno solo que no lo sea, la operación entera se
// rechaza.
func (a *RemoteActions) BulkDelete(ctx context.Context, companyID string, ids []string) (movement.Result, error) {
	for _, id := range ids {
		current, err := a.loadOwned(id, companyID)
		if err != nil {
			return movement.Result{}, err
		}
		if current == nil {
			return movement.Result{Error: fmt.Sprintf("movimiento %s no encontrado", id)}, nil
		}
		if !current.Deletable() {
			return movement.Result{
				Error: fmt.Sprintf("movimiento %s en estado %s no puede eliminarse", id, current.Status),
			}, nil
		}
	}
	if err := a.repo.BulkDelete(companyID, ids); err != nil {
		return movement.Result{}, fmt.Errorf("bulk delete: %w", err)
	}
	return movement.Result{Success: true}, nil
}

// loadOwned carga un movimiento y lo trata como inexistente si pertenece a
// otra empresa: un id ajeno no se distingue de uno desconocido.
func (a *RemoteActions) loadOwned(id, companyID string) (*entity.StockMovement, error) {
	current, err := a.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load movement %s: %w", id, err)
	}
	if current == nil || current.CompanyID != companyID {
		return nil, nil
	}
	return current, nil
}

// Resync recarga la lista completa de movimientos de la empresa.
func (a *RemoteActions) Resync(ctx context.Context, companyID string) ([]*entity.StockMovement, error) {
	list, _, err := a.repo.ListByCompany(companyID, "", "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("resync movements: %w", err)
	}
	return list, nil
}
