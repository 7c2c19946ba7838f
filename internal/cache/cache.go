// Package cache stores assembled page views so repeat requests skip the
// content store until the entry expires or is revalidated.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lajketz/site/internal/config"
	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/utils"
)

// viewSchema is bumped whenever the cached view types change shape, so
// entries written by an older build are never decoded.
const viewSchema = "v1"

// Store is a byte-oriented key/value backend with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open connects to Redis when configured and falls back to memory when it is
// not, or when the connection fails.
func Open(cfg *config.Config) Store {
	if cfg.RedisURL == "" {
		logger.Get().Info().Msg("REDIS_URL not set, using in-memory view cache")
		return NewMemoryClient(cfg.RedisPrefix)
	}
	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Redis unavailable, using in-memory view cache")
		return NewMemoryClient(cfg.RedisPrefix)
	}
	return client
}

// PageKey is the cache key of the assembled view served at path.
func PageKey(path string) string {
	return "view:" + utils.Fingerprint(path, viewSchema)
}

// Views stores JSON-encoded page views. Backend failures are logged and
// treated as misses.
//
// Each path carries a generation that Invalidate bumps. A view assembled
// under an older generation is dropped by Save instead of overwriting the
// invalidation. Generations are per process.
type Views struct {
	store Store
	ttl   time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func NewViews(store Store, ttl time.Duration) *Views {
	return &Views{store: store, ttl: ttl, gens: make(map[string]uint64)}
}

// Generation returns the current generation of path. Take it before
// assembling a view and hand it to Save.
func (v *Views) Generation(path string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gens[path]
}

// Load decodes the view cached for path into out and reports a hit.
func (v *Views) Load(ctx context.Context, path string, out any) bool {
	raw, ok, err := v.store.Get(ctx, PageKey(path))
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("View cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("Discarding undecodable cached view")
		_ = v.store.Delete(ctx, PageKey(path))
		return false
	}
	return true
}

// Save caches view for path unless path was invalidated after gen was taken.
// It reports whether the view was written.
func (v *Views) Save(ctx context.Context, path string, gen uint64, view any) bool {
	raw, err := json.Marshal(view)
	if err != nil {
		logger.Get().Error().Err(err).Str("path", path).Msg("Failed to encode view")
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gens[path] != gen {
		logger.Get().Debug().Str("path", path).Msg("Dropping view assembled before revalidation")
		return false
	}
	if err := v.store.Set(ctx, PageKey(path), raw, v.ttl); err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("View cache write failed")
		return false
	}
	return true
}

// Invalidate drops the cached views for paths. Saves in flight for those
// paths are discarded even when the delete fails.
func (v *Views) Invalidate(ctx context.Context, paths ...string) error {
	keys := make([]string, len(paths))
	v.mu.Lock()
	for i, p := range paths {
		v.gens[p]++
		keys[i] = PageKey(p)
	}
	v.mu.Unlock()
	return v.store.Delete(ctx, keys...)
}
