// Package cache holds short-lived shared state: cached public reads,
// revoked session ids and rate-limit counters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Incr increments key and starts its ttl on the first increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Loader reads JSON values through a Store, collapsing concurrent misses
// for the same key into a single load.
type Loader struct {
	store Store
	group singleflight.Group
}

func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

func (l *Loader) Store() Store {
	return l.store
}

// GetOrLoad decodes the cached value for key into dst, or calls load,
// caches its result for ttl and decodes that into dst. Cache failures
// degrade to calling load. The shared load runs detached from ctx, since
// it also serves the callers collapsed into it.
func (l *Loader) GetOrLoad(ctx context.Context, key string, ttl time.Duration, dst interface{}, load func(ctx context.Context) (interface{}, error)) error {
	if raw, err := l.store.Get(ctx, key); err == nil {
		if err = json.Unmarshal(raw, dst); err == nil {
			return nil
		}
	}

	loadCtx := context.WithoutCancel(ctx)
	raw, err, _ := l.group.Do(key, func() (interface{}, error) {
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal -> %w", err)
		}
		_ = l.store.Set(loadCtx, key, b, ttl)
		return b, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(raw.([]byte), dst)
}

func (l *Loader) Invalidate(ctx context.Context, keys ...string) error {
	return l.store.Delete(ctx, keys...)
}

func (l *Loader) InvalidatePrefix(ctx context.Context, prefix string) error {
	return l.store.DeletePrefix(ctx, prefix)
}
