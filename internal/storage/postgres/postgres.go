package postgres

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bingbr/League-API-datastore/internal/storage"
)

var ErrDbNotInitialized = errors.New("postgres database not initialized")

const dialect = "postgres"

// Database is the Postgres-backed match reference cache. It also receives
// mirrored log records and static sync summaries.
type Database struct {
	pool *pgxpool.Pool
}

var _ storage.CacheDB = (*Database)(nil)

// Open connects, verifies the connection and creates every cache table.
func Open(ctx context.Context, databaseURL string) (*Database, error) {
	cfg, err := poolConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	db := &Database{pool: pool}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func poolConfig(databaseURL string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	// History fetches write one batch per page, so a small pool is enough.
	cfg.MaxConns = int32(max(4, runtime.GOMAXPROCS(0)))
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 10 * time.Minute
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	return cfg, nil
}

func (db *Database) Close() error {
	if db != nil && db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func (db *Database) createTables(ctx context.Context) error {
	b := &pgx.Batch{}
	for _, stmt := range schema {
		b.Queue(stmt)
	}
	return db.sendBatch(ctx, "create cache schema", b)
}

func (db *Database) ensureReady() error {
	if db == nil || db.pool == nil {
		return ErrDbNotInitialized
	}
	return nil
}

// sendBatch runs every queued statement in one transaction.
func (db *Database) sendBatch(ctx context.Context, op string, b *pgx.Batch) error {
	if err := db.ensureReady(); err != nil {
		return err
	}
	if b.Len() == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
