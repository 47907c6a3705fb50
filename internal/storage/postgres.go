package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricetrack/internal/config"
)

const (
	createBlobTableSQL = `CREATE TABLE IF NOT EXISTS %s (
        key        TEXT PRIMARY KEY,
        data       JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	loadBlobSQL = `SELECT data FROM %s WHERE key = $1;`

	saveBlobSQL = `INSERT INTO %s (key, data, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (key) DO UPDATE
    SET data       = EXCLUDED.data,
        updated_at = EXCLUDED.updated_at;`
)

// NewPool configures a PostgreSQL connection pool from runtime settings.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.database.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// Postgres keeps one JSONB row per key.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres wires a pool into the backend; table defaults to kv_blobs.
func NewPostgres(pool *pgxpool.Pool, table string) *Postgres {
	if table == "" {
		table = "kv_blobs"
	}
	return &Postgres{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// EnsureSchema creates the blob table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	pool, err := p.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(createBlobTableSQL, p.table)); err != nil {
		return fmt.Errorf("create blob table: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

func (p *Postgres) getPool() (*pgxpool.Pool, error) {
	if p == nil || p.pool == nil {
		return nil, ErrNotConfigured
	}
	return p.pool, nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, bool, error) {
	pool, err := p.getPool()
	if err != nil {
		return nil, false, err
	}

	var data []byte
	err = pool.QueryRow(ctx, fmt.Sprintf(loadBlobSQL, p.table), key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load blob %s: %w", key, err)
	}
	return data, true, nil
}

func (p *Postgres) Save(ctx context.Context, key string, data []byte) error {
	pool, err := p.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(saveBlobSQL, p.table), key, string(data)); err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}
	return nil
}

var _ BlobStore = (*Postgres)(nil)
