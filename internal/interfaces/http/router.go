package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/auth"
	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/internal/application/usecase"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	PermissionS *usecase.PermissionService
	AuthUC      *auth.AuthUseCase

	Submit       *movement.SubmitUseCase
	Controller   *movement.Controller
	CancelFlow   *movement.CancellationFlow
	Coordinator  *movement.Coordinator
	Cache        *movement.Cache
	MovementRepo repository.MovementRepository

	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta pública (onboarding), consulta protegida
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/companies/:id", companyHandler.Get)

	// El catálogo lo administran admin y bodeguero; borrar es solo de admin.
	catalogWriter := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", catalogWriter, storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.Get)
	stores.Put("/:id", catalogWriter, storeHandler.Update)
	stores.Delete("/:id", adminOnly, storeHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", catalogWriter, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", catalogWriter, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock movements (protegido + módulo activo; las mutaciones además
	// verifican la acción del rol)
	movements := protected.Group("/movements", RequireModule(deps.PermissionS, entity.ModuleInventory))
	movementHandler := NewMovementHandler(deps.Submit, deps.Controller, deps.CancelFlow, deps.Coordinator, deps.Cache, deps.MovementRepo)

	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.Get)
	movements.Get("/:id/next-states", movementHandler.NextStates)

	canCreate := RequirePermission(deps.PermissionS, entity.ModuleInventory, entity.ActionCreate)
	canUpdate := RequirePermission(deps.PermissionS, entity.ModuleInventory, entity.ActionUpdate)
	canDelete := RequirePermission(deps.PermissionS, entity.ModuleInventory, entity.ActionDelete)

	movements.Post("/adjustments", canCreate, movementHandler.CreateAdjustment)
	movements.Post("/transfers", canCreate, movementHandler.CreateTransfer)
	movements.Put("/:id", canUpdate, movementHandler.UpdateAdjustment)
	movements.Patch("/:id/status", canUpdate, movementHandler.Transition)
	movements.Post("/:id/cancel", canUpdate, movementHandler.Cancel)
	movements.Delete("/:id", canDelete, movementHandler.Delete)

	movements.Post("/bulk/status", canUpdate, movementHandler.BulkStatus)
	movements.Post("/bulk/delete", canDelete, movementHandler.BulkDelete)
}
