package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/platform/sqlstore"
	"github.com/taskdesk/taskdesk/internal/service"
	"github.com/taskdesk/taskdesk/internal/service/auth"
	"github.com/taskdesk/taskdesk/internal/session"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db        *sql.DB
	boltStore *session.BoltStore

	sessions    *session.Manager
	userService service.UserService
	taskService service.TaskService
}

// newApplication opens the database, runs migrations, picks the session
// backend, and wires the service layer.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Sessions persist in bbolt when a file is configured; otherwise they
	// live in memory and die with the process.
	var sessionStore session.Store
	if cfg.Session.Path != "" {
		boltStore, err := session.NewBoltStore(cfg.Session.Path)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		app.boltStore = boltStore
		sessionStore = boltStore
		logger.Info("using persistent session store", "path", cfg.Session.Path)
	} else {
		sessionStore = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	ttl := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
	app.sessions = session.NewManager(sessionStore, cfg.Auth.SessionSecret, ttl, logger)

	userStore := sqlstore.NewUserStore(db, logger)
	taskStore := sqlstore.NewTaskStore(db, logger)

	app.userService, err = service.NewUserService(
		userStore,
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		cfg.Auth.ManagerSecret,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(taskStore, userStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// cleanup releases the application's resources. Safe to call on a
// partially constructed application.
func (app *application) cleanup() {
	if app.boltStore != nil {
		if err := app.boltStore.Close(); err != nil {
			app.logger.Warn("failed to close session store", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", "error", err)
		}
	}
}
