// Package storage defines the persistence interface for scenarios and
// assumption templates, with SQLite (default) and PostgreSQL backends.
package storage

import (
	"context"
	"fmt"

	"github.com/roitools/roical/internal/storage/postgres"
	"github.com/roitools/roical/internal/storage/sqlite"
	"github.com/roitools/roical/internal/types"
)

// Storage defines the interface for scenario storage backends
type Storage interface {
	// Scenarios
	SaveScenario(ctx context.Context, scenario *types.Scenario) error
	GetScenario(ctx context.Context, id string) (*types.Scenario, error)
	GetScenarioByName(ctx context.Context, name string) (*types.Scenario, error)
	ListScenarios(ctx context.Context, filter types.ScenarioFilter) ([]*types.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error

	// Assumption templates
	SaveTemplate(ctx context.Context, template *types.Template) error
	GetTemplate(ctx context.Context, name string) (*types.Template, error)
	ListTemplates(ctx context.Context) ([]*types.Template, error)
	DeleteTemplate(ctx context.Context, name string) error

	// Config
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Backend selects the storage implementation: "sqlite" or "postgres"
	Backend string

	// Path is the SQLite database file path.
	// Default: ".roical/roical.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string

	// PostgresURL is the connection string used when Backend is "postgres"
	PostgresURL string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: "sqlite",
		Path:    ".roical/roical.db",
	}
}

// NewStorage creates a storage backend from the config
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = ".roical/roical.db"
		}
		return sqlite.New(path)
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend requires a connection URL")
		}
		return postgres.New(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
