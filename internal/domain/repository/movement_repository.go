package repository

import (
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// MovementRepository define el puerto de persistencia para StockMovement (DIP).
// La implementación vive en infrastructure y es la autoridad final sobre el
// estado de cada movimiento.
type MovementRepository interface {
	Create(m *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	Update(m *entity.StockMovement) error
	// UpdateStatus cambia estado y motivo de rechazo en una sola sentencia.
	UpdateStatus(id string, status workflow.Status, rejectionReason string) (*entity.StockMovement, error)
	ListByCompany(companyID, kind string, status workflow.Status, limit, offset int) ([]*entity.StockMovement, int, error)
	Delete(id string) error
	// Operaciones bulk: una sola sentencia para toda la selección, acotada
	// a la empresa dueña.
	BulkUpdateStatus(companyID string, ids []string, status workflow.Status) error
	BulkDelete(companyID string, ids []string) error
}
