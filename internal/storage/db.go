// Package storage is the Postgres catalog: workouts, their exercises and
// recorded completions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	appName     = "fitfeed"
	pingTimeout = 5 * time.Second
)

// PoolOptions tunes the connection pool. Zero values keep pgx defaults.
type PoolOptions struct {
	MaxConns    int32
	MaxConnIdle time.Duration
}

// DB wraps a pgxpool.Pool and provides the catalog and completion queries.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to dsn and checks the connection before returning.
func New(ctx context.Context, dsn string, opts PoolOptions) (*DB, error) {
	cfg, err := poolConfig(dsn, opts)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.ConnConfig.Database, err)
	}
	return &DB{Pool: pool}, nil
}

func poolConfig(dsn string, opts PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnIdle > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdle
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = appName
	}
	return cfg, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Collector exports connection pool statistics.
func (db *DB) Collector(dbName string) prometheus.Collector {
	return pgxpoolprometheus.NewCollector(db.Pool, map[string]string{"db_name": dbName})
}

// RunMigrations brings the schema up to date from the given directory and
// returns the resulting schema version.
func RunMigrations(dsn, migrationsPath string) (uint, error) {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return 0, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("running migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
