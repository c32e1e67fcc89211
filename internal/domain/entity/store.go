package entity

import "time"

// Store representa una tienda o sucursal donde se almacena inventario (multi-tienda).
type Store struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
