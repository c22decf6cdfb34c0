package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/backend"
	"github.com/example/studio-scheduler/internal/config"
	httptransport "github.com/example/studio-scheduler/internal/http"
	"github.com/example/studio-scheduler/internal/logging"
	"github.com/example/studio-scheduler/internal/persistence/sqlite"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger = logging.New(os.Stdout, cfg.LogLevel)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
	if err != nil {
		logger.Error("failed to listen", "port", cfg.HTTPPort, "error", err)
		os.Exit(1)
	}

	if err := serve(ctx, listener, app.handler, logger); err != nil {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	handler http.Handler
	store   *sqlite.Store
	logger  *slog.Logger
}

// newApp opens and migrates the snapshot store and wires every layer.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN), logger)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate snapshot store: %w", err)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.BackendURL,
		Token:      cfg.BackendToken,
		Timeout:    cfg.BackendTimeout,
		MaxRetries: cfg.BackendRetries,
		Location:   cfg.Location,
		Logger:     logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	calendarService := application.NewCalendarService(
		newSessionSourceAdapter(client),
		newSnapshotStoreAdapter(sqlite.NewSnapshotRepository(store), cfg.Location),
		uuid.NewString,
		time.Now,
		application.CalendarServiceConfig{
			Location:             cfg.Location,
			PreviewWarnThreshold: cfg.PreviewWarnThreshold,
			CacheTTL:             cfg.CacheTTL,
			CacheSize:            cfg.CacheSize,
		},
		logger,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Preview:    httptransport.NewPreviewHandler(calendarService, logger),
		Calendar:   httptransport.NewCalendarHandler(calendarService, logger),
		Health:     httptransport.NewHealthHandler(logger, store),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	return &app{handler: router, store: store, logger: logger}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close snapshot store", "error", err)
	}
}

// serve runs the HTTP server on listener until ctx is done, then drains
// in-flight requests for at most shutdownTimeout.
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("studio calendar API listening", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("studio calendar API stopped")
	return nil
}
