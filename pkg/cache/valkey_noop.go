package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

// noopValkeyCache provides an in-memory, process-local fallback that satisfies
// ValkeyCluster when the external cache is unavailable. It is best-effort and
// intended for development and degraded operation; data is not shared across
// replicas and is lost on restart.
type noopValkeyCache struct {
	m        map[string][]byte
	counters map[string]int64
	mu       sync.RWMutex
	logger   logger.Logger
}

func NewNoopValkeyCache(log logger.Logger) ValkeyCluster {
	log.Warn("Valkey cache unavailable; using in-memory fallback (noop)")
	return &noopValkeyCache{
		m:        make(map[string][]byte),
		counters: make(map[string]int64),
		logger:   log,
	}
}

func (n *noopValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.m[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return b, nil
}

func (n *noopValkeyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encodeValue(value)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.m[key] = b
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) Delete(ctx context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) CacheRenderResult(ctx context.Context, renderHash string, result interface{}, ttl time.Duration) error {
	return n.Set(ctx, "render_cache:"+renderHash, result, ttl)
}

func (n *noopValkeyCache) GetCachedRenderResult(ctx context.Context, renderHash string) ([]byte, error) {
	return n.Get(ctx, "render_cache:"+renderHash)
}

// Increment bumps an in-memory counter. TTL is ignored; counters reset with
// the process, which is acceptable for development use.
func (n *noopValkeyCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counters[key]++
	return n.counters[key], nil
}

// HealthCheck returns an error to indicate no external Valkey connectivity.
func (n *noopValkeyCache) HealthCheck(ctx context.Context) error {
	return fmt.Errorf("valkey noop cache in use (external cache not connected)")
}
