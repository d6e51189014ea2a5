package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/haritkart/storefront/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestProfileKeyNamespacing(t *testing.T) {
	client := newTestClient(t)
	key := client.ProfileKey("abc123")
	if key != "hk:profile:abc123" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSetGetDelRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	key := client.ProfileKey("sess")
	if err := client.Set(ctx, key, `{"id":"u1"}`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"id":"u1"}` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, key); err != ErrNotFound {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := client.FixedWindowAllow(ctx, "login:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, count, err := client.FixedWindowAllow(ctx, "login:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatalf("fourth attempt should be blocked, count=%d", count)
	}
}
