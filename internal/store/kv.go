// Package store persists the scan history on a key-value substrate.
package store

import (
	"context"
	"fmt"

	"github.com/hpungsan/radar/internal/config"
)

// KV is the minimal key-value contract the history needs.
// Get reports ok=false for an absent key; that is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, baseDir string) (KV, error) {
	switch cfg.Backend {
	case "", config.BackendSQLite:
		return OpenSQLite(baseDir)
	case config.BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
		})
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
