package main

import (
	"context"
	"os"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tenanthub/internal/auth"
	"tenanthub/internal/broker"
	"tenanthub/internal/config"
	handlers "tenanthub/internal/http/handler"
	"tenanthub/internal/http/middleware"
	"tenanthub/internal/otel"
	"tenanthub/internal/repository/memory"
	"tenanthub/internal/service"
	"tenanthub/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log.With().Str("component", "otel").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer shutdownTracing(ctx)

	// Blob storage: local filesystem by default, S3-compatible when configured
	var store storage.Storage
	switch cfg.StorageBackend {
	case config.StorageFilesystem:
		store, err = storage.NewFilesystem(cfg.UploadsDir)
	case config.StorageS3:
		store, err = storage.NewMinIO(cfg.MinIO)
	default:
		log.Fatal().Str("backend", cfg.StorageBackend).Msg("unknown storage backend")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	// User directory: static token list, from file or the built-in demo set
	dir := auth.DefaultDirectory()
	if cfg.UsersFile != "" {
		dir, err = auth.LoadDirectory(cfg.UsersFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.UsersFile).Msg("failed to load user directory")
		}
	}
	resolver := auth.NewResolver(dir)
	log.Info().Int("users", dir.Len()).Msg("user directory loaded")

	hub, err := broker.NewHub(log.With().Str("component", "hub").Logger(), prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize event hub")
	}

	eventRepo := memory.NewEventMemory()
	docRepo := memory.NewDocumentMemory()

	eventSvc, err := service.NewEventService(eventRepo, hub, log.With().Str("component", "events").Logger(), prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize event service")
	}
	docSvc := service.NewDocumentService(store, docRepo, log.With().Str("component", "documents").Logger())

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log.With().Str("component", "http").Logger()))
	app.Use(promMW.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, resolver, eventSvc, docSvc, hub, log)

	// Demo page exercising the API from a browser
	app.Static("/", "./public")

	addr := cfg.ListenAddr()
	log.Info().Str("addr", addr).Str("storage", cfg.StorageBackend).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
