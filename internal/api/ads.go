package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/db"
	"github.com/pathgriho/adrotor/internal/logic"
	"github.com/pathgriho/adrotor/internal/middleware"
	"github.com/pathgriho/adrotor/internal/models"
	"github.com/pathgriho/adrotor/internal/token"
)

// parseLabels splits the comma-separated labels query parameter, dropping
// empty entries.
func parseLabels(raw string) []string {
	if raw == "" {
		return nil
	}
	var labels []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// AdsHandler handles GET /v1/ads: it assigns the top and bottom slots
// between the two configured owners, picks one ad per slot and returns the
// display metadata with signed click URLs.
func (s *Server) AdsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "AdsHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/v1/ads"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/v1/ads"
	const method = "GET"

	requestID := uuid.NewString()
	device := logic.DeviceClassFromRequest(r)
	day := logic.DayBucket(s.Location)
	labels := parseLabels(r.URL.Query().Get("labels"))

	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("ad.device", device),
		attribute.String("ad.day", day),
	)

	cfg, err := s.Provider.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "config unavailable")
		logger.Error("config load", zap.Error(err), zap.String("request_id", requestID))
		s.Metrics.IncrementConfigFetch("error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusInternalServerError, "config unavailable", map[string]any{
			"reason": err.Error(),
		})
		return
	}
	s.Metrics.IncrementConfigFetch("ok")

	// Only the first two owners participate in rotation.
	ownerA, ownerB := cfg.Owners[0], cfg.Owners[1]

	countA := s.Store.GetCount(db.TopImpressionKey(day, device, ownerA.ID))
	countB := s.Store.GetCount(db.TopImpressionKey(day, device, ownerB.ID))
	top, bottom := logic.SelectTopOwner(countA, countB, ownerA, ownerB)

	topPool := logic.EligiblePool(cfg.Ads, top.ID, labels)
	bottomPool := logic.EligiblePool(cfg.Ads, bottom.ID, labels)
	if len(topPool) == 0 || len(bottomPool) == 0 {
		selErr := &logic.ErrNoEligibleAds{
			TopOwnerID:     top.ID,
			BottomOwnerID:  bottom.ID,
			TopPoolSize:    len(topPool),
			BottomPoolSize: len(bottomPool),
		}
		span.SetAttributes(attribute.String("ad.result", "no_ads"))
		logger.Warn("no eligible ads", zap.Error(selErr), zap.String("request_id", requestID))
		s.Metrics.IncrementEvent("no_ads")
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusNotFound, "no eligible ads", map[string]any{
			"topOwner":       top.ID,
			"topPoolSize":    len(topPool),
			"bottomOwner":    bottom.ID,
			"bottomPoolSize": len(bottomPool),
		})
		return
	}

	topAd := logic.PickAd(topPool, nil)
	bottomAd := logic.PickAd(bottomPool, nil)

	// The fairness counter moves only once both slots are guaranteed to
	// serve. All counters are best-effort: a write failure under-counts but
	// never fails the response.
	s.bumpCounter(logger, db.TopImpressionKey(day, device, top.ID))
	s.bumpCounter(logger, db.AdImpressionKey(day, topAd.ID))
	s.bumpCounter(logger, db.AdImpressionKey(day, bottomAd.ID))
	s.Metrics.IncrementTopAssignment(top.ID, device)
	s.Metrics.IncrementEvent("ads_served")

	span.SetAttributes(
		attribute.String("ad.result", "served"),
		attribute.String("ad.top_owner", top.ID),
		attribute.String("ad.top_ad", topAd.ID),
		attribute.String("ad.bottom_ad", bottomAd.ID),
	)
	logger.Info("ads served",
		zap.String("request_id", requestID),
		zap.String("day", day),
		zap.String("device", device),
		zap.String("top_owner", top.ID),
		zap.String("top_ad", topAd.ID),
		zap.String("bottom_ad", bottomAd.ID),
	)

	resp := models.AdsResponse{
		Meta: models.AdsMeta{
			Day:         day,
			Device:      device,
			TopOwner:    top.ID,
			BottomOwner: bottom.ID,
		},
		Top:    s.servedAd(*topAd, day, device, models.PositionTop),
		Bottom: s.servedAd(*bottomAd, day, device, models.PositionBottom),
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

// servedAd builds the per-slot response payload, issuing the click token
// that binds this impression's (day, device, position, ad) to a later click.
func (s *Server) servedAd(ad models.Ad, day, device, position string) models.ServedAd {
	tok := token.Issue(s.TokenSecret, day, device, position, ad.ID)
	clickURL := fmt.Sprintf("/c/%s?t=%s&pos=%s&d=%s&dev=%s",
		url.PathEscape(ad.ID), url.QueryEscape(tok), position, day, device)
	return models.ServedAd{
		ID:       ad.ID,
		OwnerID:  ad.OwnerID,
		Title:    ad.Title,
		ImageURL: ad.ImageFor(device),
		ClickURL: clickURL,
	}
}

// bumpCounter increments a daily counter, logging and swallowing failures.
func (s *Server) bumpCounter(logger *zap.Logger, key string) {
	if _, err := s.Store.Increment(key, s.CounterTTL); err != nil {
		logger.Warn("counter increment", zap.String("key", key), zap.Error(err))
	}
}
