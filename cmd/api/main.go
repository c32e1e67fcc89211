package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Movimientos-api/internal/application/auth"
	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/internal/application/usecase"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/notify"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Movimientos-api/internal/interfaces/http"
	"github.com/jhoicas/Movimientos-api/pkg/config"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)

	// Motor de movimientos: caché optimista al frente, acciones remotas
	// autoritativas detrás.
	engineLog := log.Component("engine")
	remote := postgres.NewRemoteActions(movementRepo, engineLog)
	notifier := notify.NewLogNotifier(engineLog)
	cache := movement.NewCache()
	controller := movement.NewController(cache, remote, remote, notifier, engineLog)
	cancelFlow := movement.NewCancellationFlow(cache, controller)
	coordinator := movement.NewCoordinator(
		cache, remote, remote, notifier,
		movement.PartialFailurePolicy(cfg.Engine.BulkPartialFailure), engineLog,
	)
	submitUC := movement.NewSubmitUseCase(productRepo, storeRepo, remote, cache)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	permissionSvc := usecase.NewPermissionService(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Movimientos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:    companyUC,
		StoreUC:      storeUC,
		ProductUC:    productUC,
		PermissionS:  permissionSvc,
		AuthUC:       authUC,
		Submit:       submitUC,
		Controller:   controller,
		CancelFlow:   cancelFlow,
		Coordinator:  coordinator,
		Cache:        cache,
		MovementRepo: movementRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
