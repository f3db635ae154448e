package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"

	"github.com/openrental/fleetd/internal/adapter/docintel"
	"github.com/openrental/fleetd/internal/adapter/fsm"
	"github.com/openrental/fleetd/internal/adapter/otel"
	"github.com/openrental/fleetd/internal/adapter/river"
	"github.com/openrental/fleetd/internal/adapter/sqlite"
	"github.com/openrental/fleetd/internal/adapter/vpic"
	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"

	handler "github.com/openrental/fleetd/internal/adapter/http"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fleetd exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx := context.Background()

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "fleetd.db")

	// --- Telemetry ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return err
	}
	defer store.Close()

	riverClient, err := river.Setup(ctx, db)
	if err != nil {
		return err
	}
	if err := riverClient.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			logger.Warn("job queue shutdown", "error", err)
		}
	}()

	var publisher domain.EventPublisher = otel.NewTracingPublisher(river.NewPublisher(riverClient))
	var vehicles domain.VehicleRepository = otel.NewTracingRepository(store)

	var analyzer domain.DocumentAnalyzer
	if cfg := docintel.ConfigFromEnv(); cfg.Enabled() {
		analyzer = docintel.New(cfg)
	}
	decoder := vpic.New(vpic.ConfigFromEnv())

	// --- Application ---
	svc := app.NewFleetService(app.Deps{
		Vehicles:     vehicles,
		Store:        store,
		Movements:    store,
		Reservations: store,
		Services:     store,
		Customers:    store,
		Plans:        store,
		Policies:     store,
		Workflows:    store,
		Validator:    fsm.NewWithWorkflow(store),
		Publisher:    publisher,
		Analyzer:     analyzer,
		Decoder:      decoder,
		Logger:       logger,
	})

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware("fleetd", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("fleetd", "0.1.0"))
	handler.Register(api, svc)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fleetd listening", "port", port, "docs", "http://localhost:"+port+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}

	logger.Info("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
