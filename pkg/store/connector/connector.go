// Package connector opens the configured document store backend once per
// process and hands the same handle to every caller.
package connector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"user-registration/pkg/clients/airtable"
	"user-registration/pkg/config"
	"user-registration/pkg/store"
	"user-registration/pkg/store/memory"
	"user-registration/pkg/store/postgres"
	"user-registration/pkg/store/sqlite"
)

// OpenFunc opens a backend from configuration.
type OpenFunc func(ctx context.Context, cfg *config.Config) (store.DocumentStore, error)

// Connector owns the store handle for the composition root.
type Connector struct {
	cfg    *config.Config
	open   OpenFunc
	logger *slog.Logger

	mu        sync.Mutex
	connected bool
	store     store.DocumentStore
}

// New returns a connector that opens backends with Open.
func New(cfg *config.Config, logger *slog.Logger) *Connector {
	return NewWithOpener(cfg, logger, Open)
}

// NewWithOpener is New with a custom opener.
func NewWithOpener(cfg *config.Config, logger *slog.Logger, open OpenFunc) *Connector {
	return &Connector{cfg: cfg, open: open, logger: logger}
}

// Connect opens the backend on first use. Later calls return the same store.
func (c *Connector) Connect(ctx context.Context) (store.DocumentStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return c.store, nil
	}
	s, err := c.open(ctx, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s store: %w", c.cfg.StoreDriver, err)
	}
	c.store = s
	c.connected = true
	c.logger.Info("document store connected", "driver", c.cfg.StoreDriver)
	return s, nil
}

// Connected reports whether Connect has succeeded.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close closes the store if it was opened. The connector may connect again afterwards.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.connected = false
	return err
}

// Open builds the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseDSN)
	case config.DriverAirtable:
		return airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableBaseURL, nil), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
