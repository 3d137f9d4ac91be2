package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis spins up an in-memory Redis and returns a store around it.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	store := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: s.Addr()}),
		Ctx:    context.Background(),
	}
	return s, store
}

func TestIncrementSetsRetentionOnFirstWrite(t *testing.T) {
	ms, store := setupTestRedis(t)
	defer ms.Close()

	key := TopImpressionKey("2025-06-01", "desktop", "cozy")

	val, err := store.Increment(key, 48*time.Hour)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if val != 1 {
		t.Fatalf("expected 1, got %d", val)
	}
	if ms.TTL(key) != 48*time.Hour {
		t.Fatalf("expected 48h TTL, got %v", ms.TTL(key))
	}

	// Second increment must not reset the TTL.
	ms.FastForward(24 * time.Hour)
	if _, err := store.Increment(key, 48*time.Hour); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if ms.TTL(key) != 24*time.Hour {
		t.Fatalf("expected 24h remaining, got %v", ms.TTL(key))
	}
}

func TestGetCountMissingKey(t *testing.T) {
	ms, store := setupTestRedis(t)
	defer ms.Close()

	if got := store.GetCount(TopImpressionKey("2025-06-01", "mobile", "fancy")); got != 0 {
		t.Fatalf("expected 0 for missing key, got %d", got)
	}
}

func TestConfigCacheRoundTrip(t *testing.T) {
	ms, store := setupTestRedis(t)
	defer ms.Close()

	raw, err := store.GetConfigCache()
	if err != nil {
		t.Fatalf("get on miss: %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty string on miss, got %q", raw)
	}

	doc := `{"owners":[],"ads":[]}`
	if err := store.SetConfigCache(doc, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, err = store.GetConfigCache()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != doc {
		t.Fatalf("expected cached doc, got %q", raw)
	}

	if err := store.InvalidateConfigCache(); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	raw, _ = store.GetConfigCache()
	if raw != "" {
		t.Fatalf("expected miss after invalidate, got %q", raw)
	}
}

func TestConfigCacheExpires(t *testing.T) {
	ms, store := setupTestRedis(t)
	defer ms.Close()

	if err := store.SetConfigCache("{}", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	ms.FastForward(2 * time.Minute)
	raw, err := store.GetConfigCache()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != "" {
		t.Fatalf("expected miss after TTL, got %q", raw)
	}
}

func TestKeyShapes(t *testing.T) {
	cases := map[string]string{
		TopImpressionKey("2025-06-01", "desktop", "cozy"):     "imp:2025-06-01:top:desktop:cozy",
		AdImpressionKey("2025-06-01", "a1"):                   "imp:2025-06-01:ad:a1",
		AdClickKey("2025-06-01", "a1"):                        "clk:2025-06-01:ad:a1",
		SlotClickKey("2025-06-01", "top", "mobile", "fancy"):  "clk:2025-06-01:top:mobile:fancy",
		SlotClickKey("2025-06-01", "bottom", "desktop", "co"): "clk:2025-06-01:bottom:desktop:co",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
