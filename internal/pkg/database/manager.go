package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Logical database names.
const (
	AdminDB     = "dadmin"
	TimesheetDB = "dtime"
)

var ErrUnknownDatabase = errors.New("unknown logical database")

// Source describes how to open one logical database.
type Source struct {
	Name string
	DSN  string
	PoolOptions
}

// Manager owns one pool per logical database for the lifetime of the process.
type Manager struct {
	mu  sync.RWMutex
	dbs map[string]*DB
}

// NewManager opens every source eagerly. On failure the pools already opened are closed.
func NewManager(ctx context.Context, sources ...Source) (*Manager, error) {
	m := &Manager{dbs: make(map[string]*DB, len(sources))}
	for _, src := range sources {
		if _, dup := m.dbs[src.Name]; dup {
			m.Close()
			return nil, fmt.Errorf("duplicate logical database %q", src.Name)
		}
		db, err := NewPostgreSQLDB(ctx, src.Name, src.DSN, src.PoolOptions)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("open %s: %w", src.Name, err)
		}
		m.dbs[src.Name] = db
		slog.Info("Database pool opened", "name", src.Name, "schema", src.Schema)
	}
	return m, nil
}

// NewManagerFromDBs wraps already opened pools.
func NewManagerFromDBs(dbs ...*DB) *Manager {
	m := &Manager{dbs: make(map[string]*DB, len(dbs))}
	for _, db := range dbs {
		m.dbs[db.Name] = db
	}
	return m
}

func (m *Manager) Get(name string) (*DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.dbs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}
	return db, nil
}

// MustGet is for startup wiring only.
func (m *Manager) MustGet(name string) *DB {
	db, err := m.Get(name)
	if err != nil {
		panic(err)
	}
	return db
}

func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.dbs))
	for name := range m.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks every pool.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for name, db := range m.dbs {
		if db.Pool == nil {
			continue
		}
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", name, err)
		}
	}
	return nil
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, db := range m.dbs {
		if db.Pool != nil {
			db.Pool.Close()
		}
		delete(m.dbs, name)
		slog.Info("Database pool closed", "name", name)
	}
}
