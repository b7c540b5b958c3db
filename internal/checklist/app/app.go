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

	httpapi "github.com/opsnorth/secchecklist/internal/checklist/http"
	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
	"github.com/opsnorth/secchecklist/internal/checklist/store/drivers/xlsx"
	"github.com/opsnorth/secchecklist/pkg/cryptox"
	"github.com/opsnorth/secchecklist/pkg/jwtx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the checklist service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.Signer

	// Services
	accountService   *service.AccountService
	selectionService *service.SelectionService
	catalogService   *service.CatalogService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "checklist",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	secret, err := cryptox.LoadOrCreateSecret(cfg.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}
	app.tokens = &jwtx.Signer{
		Secret: secret,
		Issuer: cfg.Issuer,
		TTL:    cfg.TokenTTL,
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("checklist service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down checklist service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("checklist service stopped")
	return nil
}

// initStore opens the backing workbook.
func (app *Application) initStore() error {
	db, err := xlsx.NewStore(app.cfg.WorkbookFile)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	app.db = db

	app.logger.Info("workbook opened", "path", app.cfg.WorkbookFile)
	return nil
}

// initServices initializes all business logic services. The reference
// catalog is loaded exactly once here and shared read-only from then on.
func (app *Application) initServices() error {
	catalog, err := app.db.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load reference catalog: %w", err)
	}
	app.logger.Info("reference catalog loaded",
		"controls", len(catalog.Controls),
		"applications", len(catalog.Applications),
	)

	app.accountService = &service.AccountService{
		Store:  app.db,
		Tokens: app.tokens,
	}
	app.selectionService = &service.SelectionService{Store: app.db}
	app.catalogService = &service.CatalogService{Catalog: catalog}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AccountService = app.accountService
	router.SelectionService = app.selectionService
	router.CatalogService = app.catalogService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
