package main

import (
	"fmt"

	"github.com/kylodelgado/nychapp/internal/api"
	"github.com/kylodelgado/nychapp/internal/config"
	"github.com/kylodelgado/nychapp/internal/db"
	"github.com/kylodelgado/nychapp/internal/services"
	"github.com/kylodelgado/nychapp/pkg/logger"

	"go.uber.org/zap"
)

// app wires the configured client, store and services together. One app is
// built per command invocation and torn down when it finishes.
type app struct {
	cfg      *config.Config
	database *db.Database
	lookup   *services.LookupService
	intake   *services.IntakeService
}

// newApp loads configuration, initializes logging, and builds the service
// graph. An empty configPath means defaults plus environment.
func newApp(configPath string) (*app, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	client := api.NewHTTPClient(cfg.API.BaseURL, cfg.API.Key, cfg.Timeout())
	store := db.NewLastSessionStore(database.GetDB())

	return &app{
		cfg:      cfg,
		database: database,
		lookup:   services.NewLookupService(client, store),
		intake:   services.NewIntakeService(client),
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			logger.Warn("Failed to close local database", zap.Error(err))
		}
	}
}
