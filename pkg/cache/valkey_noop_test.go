package cache

import (
	"context"
	"testing"
	"time"

	"github.com/vizorhq/vizor-core/pkg/logger"
)

func TestNoopValkey_BasicOps(t *testing.T) {
	log := logger.New("error")
	cch := NewNoopValkeyCache(log)
	ctx := context.Background()

	if err := cch.Set(ctx, "k1", "v1", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := cch.Get(ctx, "k1")
	if err != nil || string(b) != "v1" {
		t.Fatalf("get: %v %q", err, string(b))
	}
	if err := cch.Delete(ctx, "k1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := cch.Get(ctx, "k1"); err == nil {
		t.Fatalf("expected miss after delete")
	}

	// render cache
	if err := cch.CacheRenderResult(ctx, "h", map[string]int{"a": 1}, time.Second); err != nil {
		t.Fatalf("cache: %v", err)
	}
	if _, err := cch.GetCachedRenderResult(ctx, "h"); err != nil {
		t.Fatalf("get cached: %v", err)
	}

	// counters
	for want := int64(1); want <= 3; want++ {
		got, err := cch.Increment(ctx, "rate:client", time.Minute)
		if err != nil || got != want {
			t.Fatalf("increment: %v got=%d want=%d", err, got, want)
		}
	}

	// health check on noop returns error indicating noop
	if nc, ok := cch.(*noopValkeyCache); ok {
		if err := nc.HealthCheck(ctx); err == nil {
			t.Fatalf("expected health error for noop cache")
		}
	}
}

func TestNoopValkey_SetEncodesStructs(t *testing.T) {
	cch := NewNoopValkeyCache(logger.New("error"))
	ctx := context.Background()

	if err := cch.Set(ctx, "obj", map[string]string{"kind": "bar"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := cch.Get(ctx, "obj")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(b) != `{"kind":"bar"}` {
		t.Fatalf("unexpected encoding: %s", string(b))
	}
}
