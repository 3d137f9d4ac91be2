// Package adconfig fetches and caches the owners+ads document that drives
// ad selection. The document lives at a remote URL and is treated as
// untrusted but well-formed: a non-2xx response, a parse failure or a
// config with fewer than two owners is a hard error for any request that
// needs it.
package adconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/db"
	"github.com/pathgriho/adrotor/internal/models"
)

// ErrTooFewOwners rejects configs that cannot participate in two-owner
// rotation. The selector only ever looks at the first two owners, so this
// is the explicit precondition that makes the two-owner design visible at
// the boundary instead of a silent truncation.
var ErrTooFewOwners = errors.New("config must declare at least two owners")

// Provider fetches the config document and caches the raw body in the
// key-value store under db.ConfigCacheKey. Cache misses are not
// de-duplicated: simultaneous misses each fetch, which is acceptable for
// a document this small.
type Provider struct {
	URL    string
	TTL    time.Duration
	Store  *db.RedisStore
	Client *http.Client
	Logger *zap.Logger
}

// NewProvider constructs a Provider with an otel-instrumented HTTP client.
func NewProvider(url string, ttl time.Duration, store *db.RedisStore, logger *zap.Logger) *Provider {
	return &Provider{
		URL:    url,
		TTL:    ttl,
		Store:  store,
		Client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Logger: logger,
	}
}

// Get returns the current config, serving from cache when possible.
func (p *Provider) Get(ctx context.Context) (*models.Config, error) {
	if raw, err := p.Store.GetConfigCache(); err == nil && raw != "" {
		cfg, err := parse([]byte(raw))
		if err == nil {
			return cfg, nil
		}
		// A cached document that no longer parses is dropped and refetched.
		p.Logger.Warn("cached config unparsable, refetching", zap.Error(err))
	} else if err != nil {
		p.Logger.Warn("config cache read", zap.Error(err))
	}
	return p.Refresh(ctx)
}

// Refresh fetches, validates and re-caches the config unconditionally.
// This is the explicit invalidation path exposed via POST /v1/refresh.
func (p *Provider) Refresh(ctx context.Context) (*models.Config, error) {
	raw, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if err := p.Store.SetConfigCache(string(raw), p.TTL); err != nil {
		// Caching is best-effort; the fetched config still serves.
		p.Logger.Warn("config cache write", zap.Error(err))
	}
	return cfg, nil
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build config request: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch config: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read config body: %w", err)
	}
	return body, nil
}

func parse(raw []byte) (*models.Config, error) {
	var cfg models.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Owners) < 2 {
		return nil, ErrTooFewOwners
	}
	return &cfg, nil
}
