package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
)

func TestHashKeyStable(t *testing.T) {
	a := HashKey("store_hub:overview", uint(7), map[string]interface{}{"b": 1, "a": "x"})
	b := HashKey("store_hub:overview", uint(7), map[string]interface{}{"a": "x", "b": 1})
	if a != b {
		t.Fatalf("same params should produce same key, got %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "store_hub:overview:") {
		t.Fatalf("key should keep namespace prefix, got %s", a)
	}

	other := HashKey("store_hub:overview", uint(8), nil)
	empty := HashKey("store_hub:overview", uint(7), nil)
	if other == empty {
		t.Fatalf("different scope should produce different key")
	}
	if empty != HashKey("store_hub:overview", uint(7), map[string]interface{}{}) {
		t.Fatalf("nil params should equal empty params")
	}
}

func TestRememberWithoutRedisCallsLoader(t *testing.T) {
	calls := 0
	loader := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 2; i++ {
		got, err := Remember(context.Background(), "k", time.Minute, false, loader)
		if err != nil {
			t.Fatalf("remember failed: %v", err)
		}
		if got != 42 {
			t.Fatalf("value want 42 got %d", got)
		}
	}
	if calls != 2 {
		t.Fatalf("loader calls want 2 got %d", calls)
	}
}

func TestRememberPropagatesLoaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), "k", time.Minute, false, func(ctx context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error want boom got %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	saved := redisPrefix
	t.Cleanup(func() { redisPrefix = saved })

	redisPrefix = ""
	if got := buildKey(" fee_policies:active "); got != "o4o:fee_policies:active" {
		t.Fatalf("key want o4o:fee_policies:active got %s", got)
	}
	redisPrefix = "test"
	if got := buildKey(""); got != "test" {
		t.Fatalf("empty key want prefix got %s", got)
	}
}

func TestInitRedisUnreachableStaysDisabled(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	if err := InitRedis(&config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}); err == nil {
		t.Fatalf("unreachable redis should return ping error")
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should stay disabled after failed ping")
	}
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil || Enabled() {
		t.Fatalf("disabled config should be a no-op, err=%v", err)
	}
	if Prefix() != "o4o" {
		t.Fatalf("default prefix want o4o got %s", Prefix())
	}
}
