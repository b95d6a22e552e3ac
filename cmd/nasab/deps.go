package main

import (
	"context"
	"fmt"

	"github.com/nasabhq/nasab/internal/config"
	"github.com/nasabhq/nasab/internal/kinship"
	"github.com/nasabhq/nasab/internal/persons"
	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/internal/storage/postgres"
	"github.com/nasabhq/nasab/internal/storage/sqlite"
	"github.com/nasabhq/nasab/pkg/types"
)

// personStore is the person directory plus the write side the CLI needs for
// seeding persons. Both backend directories satisfy it.
type personStore interface {
	storage.PersonDirectory
	PutPerson(ctx context.Context, p *types.Person) error
}

// Deps holds the wired components for a command invocation.
type Deps struct {
	Config  *config.Config
	Engine  *kinship.Engine
	Persons personStore
}

// withDeps loads config, opens the configured backend and builds the engine,
// then calls fn. Cleanup is handled automatically.
func withDeps(fn func(*Deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		store     storage.RelationshipStore
		directory personStore
	)

	switch cfg.Storage.Engine {
	case "sqlite":
		s, err := sqlite.NewRelationshipStore(cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}
		store = s
		directory = sqlite.NewPersonDirectory(s)
	case "postgres":
		s, err := postgres.NewRelationshipStore(cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("opening postgres store: %w", err)
		}
		store = s
		directory = postgres.NewPersonDirectory(s)
	default:
		return fmt.Errorf("unknown storage engine %q (want sqlite or postgres)", cfg.Storage.Engine)
	}
	defer store.Close()

	if cfg.Storage.BreakerEnabled {
		store = storage.NewBreakerStore(store, storage.BreakerConfig{})
	}

	cached, err := persons.NewCachedDirectory(directory, cfg.Storage.PersonCacheSize)
	if err != nil {
		return fmt.Errorf("building person cache: %w", err)
	}

	opts := []kinship.Option{
		kinship.WithDegreeBound(cfg.Traversal.DegreeBound),
	}
	if cfg.Bulk.RateLimit > 0 {
		opts = append(opts, kinship.WithRateLimit(cfg.Bulk.RateLimit, cfg.Bulk.Burst))
	}

	deps := &Deps{
		Config:  cfg,
		Engine:  kinship.NewEngine(store, cached, opts...),
		Persons: directory,
	}
	return fn(deps)
}

// loadConfig honors the --config flag; without it only env and defaults
// apply.
func loadConfig() (*config.Config, error) {
	if globalConfigPath != "" {
		return config.LoadConfigFromFile(globalConfigPath)
	}
	return config.LoadConfig()
}
