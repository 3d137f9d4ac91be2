package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/middleware"
)

// RefreshHandler handles POST /v1/refresh: it drops the cached config and
// refetches immediately, so edits to the remote document take effect
// without waiting out the cache TTL.
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/v1/refresh"
	const method = "POST"

	cfg, err := s.Provider.Refresh(r.Context())
	if err != nil {
		logger.Error("config refresh", zap.Error(err))
		s.Metrics.IncrementConfigFetch("error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusInternalServerError, "config refresh failed", map[string]any{
			"reason": err.Error(),
		})
		return
	}

	logger.Info("config refreshed",
		zap.Int("owners", len(cfg.Owners)),
		zap.Int("ads", len(cfg.Ads)),
	)
	s.Metrics.IncrementConfigFetch("refresh")
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"owners": len(cfg.Owners),
		"ads":    len(cfg.Ads),
	})
}
