package storage

import (
	"context"
	"fmt"

	"pricetrack/internal/config"
)

// Open builds the backend selected in cfg. The returned closer is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (BlobStore, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), noop, nil
	case config.BackendFile, "":
		f, err := NewFile(cfg.File.Dir)
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil
	case config.BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		r := NewRedis(client)
		return r, func() { _ = r.Close() }, nil
	case config.BackendPostgres:
		pool, err := NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		pg := NewPostgres(pool, cfg.Database.Table)
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, noop, err
		}
		return pg, pg.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
