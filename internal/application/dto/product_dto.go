package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// VariantDTO variante de un producto. store_stocks conserva la forma dual del
// upstream (lista plana o wrapper); la normalización es del dominio.
type VariantDTO struct {
	Title       string          `json:"title" validate:"required,min=1,max=100"`
	Value       string          `json:"value"`
	SKU         string          `json:"sku"`
	StoreStocks json.RawMessage `json:"store_stocks"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	StoreStocks json.RawMessage `json:"store_stocks"`
	Variants    []VariantDTO    `json:"variants" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	StoreStocks json.RawMessage  `json:"store_stocks"`
	Variants    []VariantDTO     `json:"variants" validate:"omitempty,dive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	StoreStocks json.RawMessage `json:"store_stocks"`
	Variants    []VariantDTO    `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
