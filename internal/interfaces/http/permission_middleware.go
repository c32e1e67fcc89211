package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/usecase"
)

// RequireModule exige que la empresa del token tenga el módulo SaaS activo.
// 401 sin empresa en el token, 403 sin módulo, 503 si el chequeo no se pudo
// ejecutar (el permiso no se asume en ninguna dirección ante fallo de infra).
func RequireModule(perm *usecase.PermissionService, moduleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_COMPANY", Message: "token sin empresa"})
		}
		ok, err := perm.HasActiveModule(c.Context(), companyID, moduleName)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERMISSION_CHECK_FAILED", Message: "no se pudo verificar el módulo"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MODULE_INACTIVE", Message: "módulo no activo para la empresa"})
		}
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles listados. 401 si el token no trae el
// claim de rol (tokens emitidos antes de introducirlo), 403 si el rol no está
// en la lista.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "token sin rol"})
		}
		for _, r := range allowed {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a esta ruta"})
	}
}

// RequirePermission exige módulo activo y que el rol del token pueda ejecutar
// la acción. Mismos códigos que RequireModule más 403 por rol insuficiente.
func RequirePermission(perm *usecase.PermissionService, moduleName, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_COMPANY", Message: "token sin empresa"})
		}
		ok, err := perm.CheckPermission(c.Context(), companyID, GetRole(c), moduleName, action)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERMISSION_CHECK_FAILED", Message: "no se pudo verificar el permiso"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol o módulo sin permiso para esta acción"})
		}
		return c.Next()
	}
}
