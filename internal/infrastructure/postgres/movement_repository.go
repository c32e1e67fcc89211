package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	id, company_id, kind, status, store_id, from_store_id, to_store_id,
	product_id, variant_title, sku, previous_quantity, actual_quantity,
	difference, movement_class, reason, rejection_reason, notes,
	created_by, created_at, updated_at`

// Create persiste un movimiento nuevo.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.Kind, m.Status, nullable(m.StoreID), nullable(m.FromStoreID), nullable(m.ToStoreID),
		m.ProductID, m.VariantTitle, m.SKU, m.PreviousQuantity, m.ActualQuantity,
		m.Difference, m.MovementClass, m.Reason, m.RejectionReason, m.Notes,
		m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o tienda inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock_movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil sin error si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_movement: %w", err)
	}
	return m, nil
}

// Update reescribe los campos editables del movimiento.
func (r *MovementRepo) Update(m *entity.StockMovement) error {
	query := `
		UPDATE stock_movements SET
			store_id = $2, from_store_id = $3, to_store_id = $4, product_id = $5,
			variant_title = $6, sku = $7, previous_quantity = $8, actual_quantity = $9,
			difference = $10, movement_class = $11, reason = $12, rejection_reason = $13,
			notes = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		m.ID, nullable(m.StoreID), nullable(m.FromStoreID), nullable(m.ToStoreID), m.ProductID,
		m.VariantTitle, m.SKU, m.PreviousQuantity, m.ActualQuantity,
		m.Difference, m.MovementClass, m.Reason, m.RejectionReason,
		m.Notes, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock_movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus cambia estado y motivo de rechazo en una sola sentencia y
// devuelve la fila resultante (la respuesta canónica del servicio).
func (r *MovementRepo) UpdateStatus(id string, status workflow.Status, rejectionReason string) (*entity.StockMovement, error) {
	query := `
		UPDATE stock_movements SET
			status = $2,
			rejection_reason = CASE WHEN $3 <> '' THEN $3 ELSE rejection_reason END,
			notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END,
			updated_at = $4
		WHERE id = $1
		RETURNING ` + movementColumns
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id, status, rejectionReason, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update status stock_movement: %w", err)
	}
	return m, nil
}

// ListByCompany lista movimientos por empresa con filtros opcionales de tipo
// y estado, más el total para paginación. limit=0 significa sin límite.
func (r *MovementRepo) ListByCompany(companyID, kind string, status workflow.Status, limit, offset int) ([]*entity.StockMovement, int, error) {
	query := `
		SELECT ` + movementColumns + `, COUNT(*) OVER() AS total
		FROM stock_movements
		WHERE company_id = $1
		  AND ($2 = '' OR kind = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT NULLIF($4, 0) OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, kind, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock_movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	total := 0
	for rows.Next() {
		var m entity.StockMovement
		var storeID, fromStoreID, toStoreID *string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.Kind, &m.Status, &storeID, &fromStoreID, &toStoreID,
			&m.ProductID, &m.VariantTitle, &m.SKU, &m.PreviousQuantity, &m.ActualQuantity,
			&m.Difference, &m.MovementClass, &m.Reason, &m.RejectionReason, &m.Notes,
			&m.CreatedBy, &m.CreatedAt, &m.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan stock_movement: %w", err)
		}
		m.StoreID = deref(storeID)
		m.FromStoreID = deref(fromStoreID)
		m.ToStoreID = deref(toStoreID)
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock_movement: %w", err)
	}
	return nil
}

// BulkUpdateStatus cambia el estado de toda la selección en UNA sentencia.
// La sentencia está acotada a la empresa: un id ajeno nunca se toca aunque
// llegue en la lista.
func (r *MovementRepo) BulkUpdateStatus(companyID string, ids []string, status workflow.Status) error {
	query := `
		UPDATE stock_movements SET status = $3, updated_at = $4
		WHERE company_id = $1 AND id = ANY($2)`
	_, err := r.q.Exec(context.Background(), query, companyID, ids, status, time.Now())
	if err != nil {
		return fmt.Errorf("bulk update status: %w", err)
	}
	return nil
}

// BulkDelete elimina toda la selección en UNA sentencia, acotada a la empresa.
func (r *MovementRepo) BulkDelete(companyID string, ids []string) error {
	query := `DELETE FROM stock_movements WHERE company_id = $1 AND id = ANY($2)`
	_, err := r.q.Exec(context.Background(), query, companyID, ids)
	if err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var storeID, fromStoreID, toStoreID *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Kind, &m.Status, &storeID, &fromStoreID, &toStoreID,
		&m.ProductID, &m.VariantTitle, &m.SKU, &m.PreviousQuantity, &m.ActualQuantity,
		&m.Difference, &m.MovementClass, &m.Reason, &m.RejectionReason, &m.Notes,
		&m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.StoreID = deref(storeID)
	m.FromStoreID = deref(fromStoreID)
	m.ToStoreID = deref(toStoreID)
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
