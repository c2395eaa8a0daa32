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

	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/matching"
	"github.com/dinukasrimal/agency-sync-api/internal/infrastructure/odoo"
	"github.com/dinukasrimal/agency-sync-api/internal/infrastructure/postgres"
	"github.com/dinukasrimal/agency-sync-api/internal/infrastructure/scheduler"
	httpRouter "github.com/dinukasrimal/agency-sync-api/internal/interfaces/http"
	"github.com/dinukasrimal/agency-sync-api/pkg/config"
	"github.com/dinukasrimal/agency-sync-api/pkg/logger"
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

	// Configuración incompleta es error fatal de arranque: no se intenta ningún run.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	ledgerRepo := postgres.NewInventoryTransactionRepository(pool)
	watermarkRepo := postgres.NewWatermarkRepository(pool)
	runLogRepo := postgres.NewSyncRunLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	source := odoo.NewClient(cfg.Odoo)

	cacheTTL := cfg.Sync.CacheTTL()
	partnerResolver := appsync.NewPartnerResolver(partnerRepo, cacheTTL, nil)
	productResolver := appsync.NewProductResolver(productRepo, matching.NameCategoryScorer{}, cacheTTL, nil)

	orchestrator := appsync.NewOrchestrator(
		source, partnerResolver, productResolver,
		ledgerRepo, watermarkRepo, runLogRepo, txRunner,
		log, nil,
	)
	runLogQuery := appsync.NewRunLogQuery(runLogRepo)

	// Scheduler: runs programados con el mismo orquestador que el trigger manual.
	trigger := scheduler.NewIntervalTrigger(cfg.Sync.Interval(), orchestrator, log)
	trigger.Start(ctx)
	defer trigger.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // un run completo puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Agency Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SyncHandler: httpRouter.NewSyncHandler(orchestrator, runLogQuery),
		JWTSecret:   cfg.JWT.Secret,
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
