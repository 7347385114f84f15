package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore
	userStore store.UserStore

	jwtService       auth.JWTService
	taskService      service.TaskService
	userService      service.UserService
	analyticsService service.AnalyticsService
}

// newApplication wires stores and services over the given database handle.
func newApplication(cfg *config.Config, appLogger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	userStore := postgres.NewPostgresUserStore(db, appLogger)
	statsStore := postgres.NewPostgresStatsStore(db, appLogger)

	return &application{
		config:           cfg,
		logger:           appLogger,
		db:               db,
		taskStore:        taskStore,
		userStore:        userStore,
		jwtService:       jwtService,
		taskService:      service.NewTaskService(db, taskStore, appLogger),
		userService:      service.NewUserService(db, userStore, taskStore, hasher, hasher, appLogger),
		analyticsService: service.NewAnalyticsService(userStore, statsStore, appLogger),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
