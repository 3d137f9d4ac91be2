package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/db"
	"github.com/pathgriho/adrotor/internal/logic"
	"github.com/pathgriho/adrotor/internal/middleware"
	"github.com/pathgriho/adrotor/internal/models"
)

// StatsHandler handles GET /v1/stats: a debug snapshot of both owners'
// top-impression counters for a day and device class. Day defaults to the
// current bucket, device to desktop.
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/v1/stats"
	const method = "GET"

	day := r.URL.Query().Get("day")
	if day == "" {
		day = logic.DayBucket(s.Location)
	} else if !logic.ValidDay(day) {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusBadRequest, "invalid day", map[string]any{"expected": "YYYY-MM-DD"})
		return
	}

	device := r.URL.Query().Get("dev")
	if device == "" {
		device = models.DeviceDesktop
	} else if !models.ValidDevice(device) {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusBadRequest, "invalid device", map[string]any{"expected": "mobile|desktop"})
		return
	}

	cfg, err := s.Provider.Get(ctx)
	if err != nil {
		logger.Error("config load", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusInternalServerError, "config unavailable", nil)
		return
	}

	resp := models.StatsResponse{
		Day:    day,
		Device: device,
		Top:    make(map[string]int64, 2),
	}
	for _, owner := range cfg.Owners[:2] {
		resp.Top[owner.ID] = s.Store.GetCount(db.TopImpressionKey(day, device, owner.ID))
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}
