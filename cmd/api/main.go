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

	"github.com/jhoicas/virtualcv-api/internal/application/authz"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
	"github.com/jhoicas/virtualcv-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/virtualcv-api/internal/infrastructure/pdf"
	"github.com/jhoicas/virtualcv-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/virtualcv-api/internal/interfaces/http"
	"github.com/jhoicas/virtualcv-api/pkg/config"
	"github.com/jhoicas/virtualcv-api/pkg/googleauth"
	"github.com/jhoicas/virtualcv-api/pkg/logger"
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

	if err := postgres.Migrate(pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	nodeRepo := postgres.NewNodeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache del documento CV. Opcional: sin CACHE_REDIS_ADDR cada lectura
	// va directo a PostgreSQL.
	var docCache usecase.DocumentCache
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		docCache = cache.New(client, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("cache Redis habilitado")
	}

	verifier := googleauth.NewVerifier(googleauth.Config{
		ClientID: cfg.Auth.GoogleClientID,
		Issuer:   cfg.Auth.Issuer,
		JWKSURL:  cfg.Auth.JWKSURL,
	})
	whitelist := authz.NewWhitelist(cfg.Auth.AllowedEmails)
	log.Info().Int("emails", whitelist.Len()).Msg("allow-list de escritura cargada")

	nodeUC := usecase.NewNodeUseCase(nodeRepo, txRunner, docCache)
	exportUC := usecase.NewExportUseCase(nodeRepo, infrapdf.NewMarotoCVGenerator())

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
		Title:    "Virtual CV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		NodeUC:    nodeUC,
		ExportUC:  exportUC,
		Verifier:  verifier,
		Whitelist: whitelist,
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
