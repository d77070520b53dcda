package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

type ValkeyCluster interface {
	// General caching
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Render result memoization for faster repeat fetches
	CacheRenderResult(ctx context.Context, renderHash string, result interface{}, ttl time.Duration) error
	GetCachedRenderResult(ctx context.Context, renderHash string) ([]byte, error)

	// Counters for the rate limiter
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	HealthCheck(ctx context.Context) error
}

type valkeyClusterImpl struct {
	client *redis.ClusterClient
	logger logger.Logger
	ttl    time.Duration
}

func NewValkeyCluster(nodes []string, defaultTTL time.Duration) (ValkeyCluster, error) {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        nodes,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test connection to Valkey cluster
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey cluster: %w", err)
	}

	return &valkeyClusterImpl{
		client: client,
		logger: logger.New("info"),
		ttl:    defaultTTL,
	}, nil
}

func (v *valkeyClusterImpl) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := v.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return b, err
}

func (v *valkeyClusterImpl) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = v.ttl
	}
	return v.client.Set(ctx, key, data, ttl).Err()
}

func (v *valkeyClusterImpl) Delete(ctx context.Context, key string) error {
	return v.client.Del(ctx, key).Err()
}

func (v *valkeyClusterImpl) CacheRenderResult(ctx context.Context, renderHash string, result interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("render_cache:%s", renderHash)
	return v.Set(ctx, key, result, ttl)
}

func (v *valkeyClusterImpl) GetCachedRenderResult(ctx context.Context, renderHash string) ([]byte, error) {
	key := fmt.Sprintf("render_cache:%s", renderHash)
	return v.Get(ctx, key)
}

func (v *valkeyClusterImpl) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := v.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = v.client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// HealthCheck pings the Valkey cluster.
func (v *valkeyClusterImpl) HealthCheck(ctx context.Context) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ctx = c
	}
	return v.client.Ping(ctx).Err()
}
