package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contractdesk/contractdesk/config"
	"github.com/contractdesk/contractdesk/internal/database"
	"github.com/contractdesk/contractdesk/internal/domain"
	httpHandler "github.com/contractdesk/contractdesk/internal/http"
	"github.com/contractdesk/contractdesk/internal/http/middleware"
	"github.com/contractdesk/contractdesk/internal/repository"
	"github.com/contractdesk/contractdesk/internal/service"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

// Version is stamped at build time
var Version = "dev"

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	router chi.Router
	server *http.Server

	// Repositories
	clientRepo   domain.ClientRepository
	contractRepo domain.ContractRepository

	// Services
	clientService   *service.ClientService
	contractService *service.ContractService
}

// AppOption is a function that configures the App
type AppOption func(*App)

// WithLogger sets a custom logger for the App
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithDB sets a pre-built database handle, used by tests
func WithDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	a := &App{
		config: cfg,
		logger: logger.NewLoggerWithLevel(cfg.LogLevel),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Initialize sets up all application components in dependency order
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	a.InitRepositories()
	a.InitServices()
	a.InitHandlers()
	return nil
}

// InitDB connects the process-scoped connection pool and ensures the schema exists
func (a *App) InitDB() error {
	// Skip if a handle was injected (e.g. by tests)
	if a.db == nil {
		db, err := database.Connect(&a.config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
	}

	if err := database.InitializeDatabase(a.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.logger.WithField("database", a.config.Database.DBName).Info("Database initialized")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() {
	a.clientRepo = repository.NewClientRepository(a.db)
	a.contractRepo = repository.NewContractRepository(a.db)
}

// InitServices initializes all application services
func (a *App) InitServices() {
	a.clientService = service.NewClientService(a.clientRepo, a.logger)
	a.contractService = service.NewContractService(a.contractRepo, a.clientRepo, a.logger)
}

// InitHandlers sets up the router, middleware chain and routes
func (a *App) InitHandlers() {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware(a.config.Server.CORSAllowOrigin))
	r.Use(middleware.RequestLogger(a.logger))

	clientHandler := httpHandler.NewClientHandler(a.clientService, a.logger)
	contractHandler := httpHandler.NewContractHandler(a.contractService, a.logger)
	rootHandler := httpHandler.NewRootHandler(Version)

	rootHandler.RegisterRoutes(r)
	r.Route("/api", func(api chi.Router) {
		clientHandler.RegisterRoutes(api)
		contractHandler.RegisterRoutes(api)
	})

	a.router = r
}

// Router exposes the configured router, used by handler tests
func (a *App) Router() chi.Router {
	return a.router
}

// DB exposes the database handle, used by integration tests
func (a *App) DB() *sql.DB {
	return a.db
}

// Start starts the HTTP server and blocks until it stops
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.server = &http.Server{
		Addr:    addr,
		Handler: a.router,
	}

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and tears down the connection pool
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown")

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error during server shutdown")
			return err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database")
			return err
		}
	}

	a.logger.Info("Shutdown complete")
	return nil
}
