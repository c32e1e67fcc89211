package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest entrada para crear un ajuste de stock.
// previous_quantity es opcional: si viene, entra en la precedencia del
// resolver como cantidad aportada por el llamador.
type CreateAdjustmentRequest struct {
	StoreID          string           `json:"store_id" validate:"required,uuid"`
	ProductID        string           `json:"product_id" validate:"required,uuid"`
	VariantTitle     string           `json:"variant_title"`
	ActualQuantity   decimal.Decimal  `json:"actual_quantity"`
	PreviousQuantity *decimal.Decimal `json:"previous_quantity"`
	Reason           string           `json:"reason" validate:"omitempty,max=250"`
}

// CreateTransferRequest entrada para crear un traslado entre tiendas.
type CreateTransferRequest struct {
	FromStoreID  string          `json:"from_store_id" validate:"required,uuid"`
	ToStoreID    string          `json:"to_store_id" validate:"required,uuid,nefield=FromStoreID"`
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	VariantTitle string          `json:"variant_title"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason" validate:"omitempty,max=250"`
}

// UpdateAdjustmentRequest edición de un ajuste en pending. Misma forma que la
// creación: editar cuenta como un nuevo momento de envío y re-resuelve la
// cantidad previa.
type UpdateAdjustmentRequest = CreateAdjustmentRequest

// TransitionRequest petición de cambio de estado.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved completed cancelled"`
	// Reason solo aplica cuando status es cancelled.
	Reason string `json:"reason" validate:"omitempty,max=250"`
}

// CancelRequest petición de cancelación con motivo obligatorio.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=250"`
}

// BulkStatusRequest acción masiva de cambio de estado sobre una selección.
type BulkStatusRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Status string   `json:"status" validate:"required,oneof=pending approved completed cancelled"`
}

// BulkDeleteRequest acción masiva de borrado sobre una selección.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// MovementListRequest filtros de listado de movimientos.
type MovementListRequest struct {
	PageRequest
	Kind   string `query:"kind" validate:"omitempty,oneof=adjustment transfer"`
	Status string `query:"status" validate:"omitempty,oneof=pending approved completed cancelled"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Kind             string          `json:"kind"`
	Status           string          `json:"status"`
	StoreID          string          `json:"store_id,omitempty"`
	FromStoreID      string          `json:"from_store_id,omitempty"`
	ToStoreID        string          `json:"to_store_id,omitempty"`
	ProductID        string          `json:"product_id"`
	VariantTitle     string          `json:"variant_title,omitempty"`
	SKU              string          `json:"sku"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
	Difference       decimal.Decimal `json:"difference"`
	MovementClass    string          `json:"movement_class,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	NextStates       []string        `json:"next_states"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
