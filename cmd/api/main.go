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
	"github.com/tu-usuario/almacen-api/internal/application/access"
	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/application/timeline"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/geoip"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-api/internal/interfaces/http"
	"github.com/tu-usuario/almacen-api/pkg/config"
	"github.com/tu-usuario/almacen-api/pkg/logger"
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

	movementRepo := postgres.NewMovementEventRepository(pool)
	sourceRepo := postgres.NewSourceRecordRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	rbacRepo := postgres.NewRBACRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Enriquecimiento geográfico del rastro de auditoría: asíncrono, con
	// caché LRU por IP y timeout acotado. Nunca bloquea la operación.
	geoClient := geoip.NewClient(cfg.Geo.BaseURL, time.Duration(cfg.Geo.TimeoutSeconds)*time.Second)
	enricher := audit.NewEnricher(
		auditRepo, geoClient,
		cfg.Geo.CacheSize,
		time.Duration(cfg.Geo.CacheTTLHours)*time.Hour,
		time.Duration(cfg.Geo.TimeoutSeconds)*time.Second,
		log,
	)
	recorder := audit.NewRecorder(auditRepo, enricher, log)

	gate := access.NewGate(rbacRepo)
	movementUC := ledger.NewMovementUseCase(txRunner, recorder)
	balanceUC := ledger.NewBalanceUseCase(movementRepo)
	timelineUC := timeline.NewTimelineUseCase(movementRepo, sourceRepo)
	auditQuery := audit.NewQueryService(auditRepo)
	userAdminUC := auth.NewUserAdminUseCase(userRepo, rbacRepo, recorder)
	registryUC := access.NewRegistryUseCase(rbacRepo, recorder)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC: movementUC,
		BalanceUC:  balanceUC,
		TimelineUC: timelineUC,
		AuditQuery: auditQuery,
		AuthUC:     authUC,
		UserAdmin:  userAdminUC,
		Registry:   registryUC,
		Gate:       gate,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("servidor detenido")
}
