package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vigilant-todo/internal/config"
	"github.com/phrazzld/vigilant-todo/internal/platform/postgres"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService
	resolver    *service.IdentityResolver
}

// newApplication wires the Postgres stores into the service layer.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app, err := newApplicationWithStores(
		cfg,
		logger,
		postgres.NewPostgresUserStore(db, logger),
		postgres.NewPostgresTaskStore(db, logger),
		store.NewSQLTransactor(db),
	)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// newApplicationWithStores builds the services over the given stores.
func newApplicationWithStores(
	cfg *config.Config,
	logger *slog.Logger,
	users store.UserStore,
	tasks store.TaskStore,
	tx store.Transactor,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"algorithm", cfg.Auth.Algorithm,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userService = service.NewUserService(users, tx, hasher, logger)
	app.taskService = service.NewTaskService(tasks, tx, logger)
	app.resolver = service.NewIdentityResolver(app.jwtService, app.userService, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("Application shutdown completed")
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}
