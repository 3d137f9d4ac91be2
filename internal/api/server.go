package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/config"
	"github.com/pathgriho/adrotor/internal/db"
	"github.com/pathgriho/adrotor/internal/middleware"
	"github.com/pathgriho/adrotor/internal/models"
	"github.com/pathgriho/adrotor/internal/observability"
)

var tracer = otel.Tracer("adrotor")

// ConfigSource supplies the owners+ads document. Satisfied by
// adconfig.Provider; handler tests substitute a fake.
type ConfigSource interface {
	Get(ctx context.Context) (*models.Config, error)
	Refresh(ctx context.Context) (*models.Config, error)
}

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger      *zap.Logger
	Store       *db.RedisStore
	Provider    ConfigSource
	Metrics     observability.MetricsRegistry
	TokenSecret []byte
	CounterTTL  time.Duration
	Location    *time.Location
	Config      config.Config
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, store *db.RedisStore, provider ConfigSource, metrics observability.MetricsRegistry, loc *time.Location, cfg config.Config) *Server {
	return &Server{
		Logger:      logger,
		Store:       store,
		Provider:    provider,
		Metrics:     metrics,
		TokenSecret: []byte(cfg.TokenSecret),
		CounterTTL:  cfg.CounterTTL,
		Location:    loc,
		Config:      cfg,
	}
}

// Router assembles the HTTP surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS(s.Config.AllowedOrigin))
	r.Use(middleware.WithTraceLogger(s.Logger))

	r.HandleFunc("/v1/ads", s.AdsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/c/{adID}", s.ClickHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/v1/stats", s.StatsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/v1/refresh", s.RefreshHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

// writeError emits the shared {error, details?} body.
func writeError(w http.ResponseWriter, status int, msg string, details map[string]any) {
	writeJSON(w, status, models.ErrorResponse{Error: msg, Details: details})
}
