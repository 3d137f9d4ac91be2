package adconfig

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/db"
)

const validDoc = `{
	"owners": [
		{"id": "cozy", "name": "Cozy Homes"},
		{"id": "fancy", "name": "Fancy Gardens"}
	],
	"ads": [
		{"id": "a1", "ownerId": "cozy", "title": "Sofa", "targetUrl": "https://cozy.example/sofa",
		 "image": {"desktop": "https://cdn.example/a1-d.png", "mobile": "https://cdn.example/a1-m.png"},
		 "status": "active", "weight": 1, "tags": ["home"]}
	]
}`

func setup(t *testing.T, handler http.HandlerFunc) (*Provider, *miniredis.Miniredis, *httptest.Server) {
	t.Helper()
	ms, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(ms.Close)

	store := &db.RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: ms.Addr()}),
		Ctx:    context.Background(),
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewProvider(srv.URL, time.Minute, store, zap.NewNop())
	p.Client = srv.Client()
	return p, ms, srv
}

func TestGetFetchesAndCaches(t *testing.T) {
	var fetches atomic.Int64
	p, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(validDoc))
	})

	cfg, err := p.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cfg.Owners) != 2 || cfg.Owners[0].ID != "cozy" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// Second call is served from cache.
	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if fetches.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetches.Load())
	}
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	var fetches atomic.Int64
	p, ms, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(validDoc))
	})

	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	ms.FastForward(2 * time.Minute)
	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if fetches.Load() != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", fetches.Load())
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	var fetches atomic.Int64
	p, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(validDoc))
	})

	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fetches.Load() != 2 {
		t.Fatalf("expected refresh to refetch, got %d fetches", fetches.Load())
	}
}

func TestGetRejectsNonOKStatus(t *testing.T) {
	p, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	})
	if _, err := p.Get(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestGetRejectsMalformedDocument(t *testing.T) {
	p, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"owners": [`))
	})
	if _, err := p.Get(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGetRejectsSingleOwner(t *testing.T) {
	p, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"owners": [{"id": "solo"}], "ads": []}`))
	})
	_, err := p.Get(context.Background())
	if !errors.Is(err, ErrTooFewOwners) {
		t.Fatalf("expected ErrTooFewOwners, got %v", err)
	}
}
