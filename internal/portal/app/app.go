package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/homeeasy/portal/internal/portal/http"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/internal/portal/store"
	"github.com/homeeasy/portal/internal/portal/store/drivers/memory"
	"github.com/homeeasy/portal/internal/portal/store/drivers/sqlite"
	"github.com/homeeasy/portal/pkg/coreapi"
	"github.com/homeeasy/portal/pkg/cryptox"
	"github.com/homeeasy/portal/pkg/jwtx"
	"github.com/homeeasy/portal/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the portal gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.CookieCodec
	core  *coreapi.Client

	sessionService      *service.SessionService
	shellManager        *service.ShellManager
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Seal key for the bearer tokens and profiles persisted at rest.
	cryptox.SetSealKeyPath(cfg.SealKeyPath)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	codec, err := jwtx.NewCookieCodec(cfg.Issuer, cfg.SigningKeyPath)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize cookie codec: %w", err)
	}
	app.codec = codec

	app.core = coreapi.NewClient(cfg.CoreAPIURL)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("portal gateway starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"core_api", app.cfg.CoreAPIURL,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server, the shells and the sweeper.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	// Every session shell stops its poller and releases its listeners.
	app.shellManager.Shutdown()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal gateway stopped")
	return nil
}

// initDatabase selects the store driver. With no database file configured
// the portal runs on the in-memory store: sessions then live only as long
// as the process, which resolves every later read as signed-out.
func (app *Application) initDatabase() error {
	if app.cfg.DatabaseFile == "" {
		app.db = memory.NewStore()
		app.logger.Info("no database file configured, sessions are in-memory only")
		return nil
	}

	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.sessionService = service.NewSessionService(
		app.db.Sessions(),
		app.codec,
		app.logger,
		app.cfg.SessionTTL,
		app.cfg.SecureCookies,
	)

	app.shellManager = service.NewShellManager(
		func(token string) service.FetchUnreadFunc {
			return func(ctx context.Context) (int, error) {
				return app.core.UnreadCount(ctx, token)
			}
		},
		app.cfg.PollInterval,
		app.logger,
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.db.Sessions(),
		app.shellManager,
		app.logger,
		app.cfg.SweepInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.Core = app.core
	router.Sessions = app.sessionService
	router.Shells = app.shellManager
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
