// Package server initializes and runs the fingr server. It selects the
// storage backends from configuration, runs schema migrations, wires the
// presence engine to the HTTP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fingr/internal/logging"
	"github.com/dmitrijs2005/fingr/internal/server/config"
	"github.com/dmitrijs2005/fingr/internal/server/httpapi"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/presence"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fingr/internal/server/services"
	"github.com/dmitrijs2005/fingr/internal/timex"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	service *services.PresenceService
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	repos, err := buildRepositoryManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	service, err := services.NewPresenceService(repos, cfg, timex.SystemClock{})
	if err != nil {
		return nil, fmt.Errorf("service init error: %w", err)
	}

	return &App{config: cfg, logger: logger, repos: repos, service: service}, nil
}

// buildRepositoryManager picks the backends: Postgres when a DSN is
// configured, in-memory otherwise. A Redis address swaps the presence
// store onto Redis in either case.
func buildRepositoryManager(cfg *config.Config) (repomanager.RepositoryManager, error) {
	var (
		repos       repomanager.RepositoryManager
		setPresence func(presence.Repository)
	)

	if cfg.DatabaseDSN != "" {
		pg, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		repos = pg
		setPresence = pg.SetPresence
	} else {
		im := repomanager.NewInMemoryRepositoryManager()
		repos = im
		setPresence = im.SetPresence
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		setPresence(presence.NewRedisRepository(client))
	}

	return repos, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	if app.config.Registration == config.RegistrationOpen {
		app.logger.Warn(ctx, "registration is open, anybody can register an account")
	}

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "storage close error", "error", err)
		}
	}()

	app.initSignalHandler(cancelFunc)

	handler := httpapi.NewHandler(app.service, app.logger.With("module", "httpapi"))
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: httpapi.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
