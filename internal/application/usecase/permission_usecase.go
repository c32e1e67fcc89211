package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

// PermissionService verifica permisos de módulo por empresa y rol.
// Es consultivo (gating de UI/rutas): el motor de movimientos no lo consulta
// y el servicio remoto de persistencia vuelve a verificar del lado servidor.
type PermissionService struct {
	companyRepo repository.CompanyRepository
}

// NewPermissionService construye el servicio de permisos.
func NewPermissionService(companyRepo repository.CompanyRepository) *PermissionService {
	return &PermissionService{companyRepo: companyRepo}
}

// roleActions acciones permitidas por rol dentro de un módulo activo.
var roleActions = map[string]map[string]bool{
	entity.RoleAdmin: {
		entity.ActionCreate: true,
		entity.ActionUpdate: true,
		entity.ActionDelete: true,
	},
	entity.RoleBodeguero: {
		entity.ActionCreate: true,
		entity.ActionUpdate: true,
	},
	entity.RoleVendedor: {},
}

// CheckPermission informa si el rol puede ejecutar la acción sobre el módulo,
// exigiendo además que la empresa tenga el módulo activo y sin vencer.
// Devuelve false (sin error) cuando el permiso no alcanza; error solo ante
// fallos de infraestructura (DB caída, timeout, etc.).
func (s *PermissionService) CheckPermission(ctx context.Context, companyID, role, moduleKey, action string) (bool, error) {
	if companyID == "" || moduleKey == "" {
		return false, fmt.Errorf("permission: companyID y moduleKey son obligatorios")
	}
	actions, ok := roleActions[role]
	if !ok || !actions[action] {
		return false, nil
	}
	mod, err := s.companyRepo.GetActiveModule(companyID, moduleKey)
	if err != nil {
		return false, err
	}
	return mod != nil && mod.IsActive, nil
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
func (s *PermissionService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("permission: companyID y moduleName son obligatorios")
	}
	mod, err := s.companyRepo.GetActiveModule(companyID, moduleName)
	if err != nil {
		return false, err
	}
	return mod != nil && mod.IsActive, nil
}
