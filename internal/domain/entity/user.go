package entity

import "time"

// Roles válidos para User. El role viaja en el JWT y gobierna qué acciones
// sobre movimientos puede ejecutar el usuario.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Estados de cuenta.
const (
	UserActive    = "active"
	UserInactive  = "inactive"
	UserSuspended = "suspended"
)

// ValidRole indica si raw es uno de los roles conocidos.
func ValidRole(raw string) bool {
	switch raw {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive solo los usuarios activos pueden autenticarse.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}
