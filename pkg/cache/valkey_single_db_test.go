//go:build db

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Live single-node Valkey/Redis; runs only when VALKEY_ADDR is set.
func TestValkeySingle_DB(t *testing.T) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		t.Skip("VALKEY_ADDR not set; skipping DB test")
	}
	ttl := 2 * time.Second
	cch, err := NewValkeySingle(addr, 0, os.Getenv("VALKEY_PASSWORD"), ttl)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	ctx := context.Background()

	if err := cch.CacheRenderResult(ctx, "db-hash", map[string]string{"kind": "bar"}, ttl); err != nil {
		t.Fatalf("cache render result: %v", err)
	}
	b, err := cch.GetCachedRenderResult(ctx, "db-hash")
	if err != nil || len(b) == 0 {
		t.Fatalf("get cached render result: %v %q", err, string(b))
	}

	first, err := cch.Increment(ctx, "rate_limit:db-test", ttl)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	second, err := cch.Increment(ctx, "rate_limit:db-test", ttl)
	if err != nil || second != first+1 {
		t.Fatalf("increment sequence: %v %d %d", err, first, second)
	}
}
