package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/mapdispatch/internal/adapters/http"
	natsadapter "github.com/samirrijal/mapdispatch/internal/adapters/nats"
	"github.com/samirrijal/mapdispatch/internal/bootstrap"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
	"github.com/samirrijal/mapdispatch/internal/pkg/config"
	"github.com/samirrijal/mapdispatch/internal/pkg/logging"
	"github.com/samirrijal/mapdispatch/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("mapdispatch-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	catalog, err := domain.NewCatalog(cfg.Navigation.NativeMapsPrefix)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	// Preference store
	backend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("preference store: %v", err)
	}
	defer backend.Close()

	deps := &http.Dependencies{
		Catalog: catalog,
		Store:   backend.Store,
		Prompt: usecases.Prompt{
			Title:       cfg.Chooser.Title,
			Message:     cfg.Chooser.Message,
			CancelLabel: cfg.Chooser.CancelLabel,
		},
		MapsFallback: !cfg.Navigation.DisableMapsFallback,
		DB:           backend.DB,
		Valkey:       backend.Valkey,
	}

	// NATS launch events (optional)
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, launch events disabled", "error", err)
	} else {
		defer nc.Close()
		deps.Publisher = nc
		deps.NATS = nc
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "MapDispatch API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "backend", cfg.Preferences.Backend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
