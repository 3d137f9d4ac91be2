package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
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

// UTM parameters appended to every click redirect.
const (
	utmSource = "pathgriho"
	utmMedium = "internal_ads"
)

// ClickHandler handles GET /c/{adID}: it verifies the signed click token
// against the request's own fields, counts the click and redirects to the
// ad's target URL with tracking parameters appended.
//
// Verification is stateless: the token either recomputes from (day,
// device, position, adID) or it doesn't. A 403 deliberately reveals nothing
// about the expected token.
func (s *Server) ClickHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ClickHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/c/{adID}"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/c"
	const method = "GET"

	adID := mux.Vars(r)["adID"]
	q := r.URL.Query()
	tok := q.Get("t")
	position := q.Get("pos")
	day := q.Get("d")
	device := q.Get("dev")

	span.SetAttributes(
		attribute.String("ad.id", adID),
		attribute.String("ad.position", position),
		attribute.String("ad.day", day),
		attribute.String("ad.device", device),
	)

	if !models.ValidPosition(position) || !models.ValidDevice(device) || !logic.ValidDay(day) ||
		!token.Verify(s.TokenSecret, day, device, position, adID, tok) {
		span.SetStatus(codes.Error, "invalid token")
		logger.Warn("click token rejected", zap.String("ad_id", adID))
		s.Metrics.IncrementEvent("click_rejected")
		s.Metrics.IncrementRequests(endpoint, method, "403")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusForbidden, "invalid token", nil)
		return
	}

	cfg, err := s.Provider.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "config unavailable")
		logger.Error("config load", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusInternalServerError, "config unavailable", nil)
		return
	}

	// A valid token does not resurrect an ad that has since been removed or
	// deactivated.
	ad := cfg.FindAd(adID)
	if ad == nil || !ad.Active() {
		logger.Warn("click for missing or inactive ad", zap.String("ad_id", adID))
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusNotFound, "ad not found", nil)
		return
	}

	target, err := url.Parse(ad.TargetURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		logger.Error("unusable target url", zap.String("ad_id", adID), zap.String("url", ad.TargetURL))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeError(w, http.StatusInternalServerError, "invalid target url", nil)
		return
	}

	s.bumpCounter(logger, db.AdClickKey(day, adID))
	s.bumpCounter(logger, db.SlotClickKey(day, position, device, ad.OwnerID))
	s.Metrics.IncrementEvent("click")

	params := target.Query()
	params.Set("utm_source", utmSource)
	params.Set("utm_medium", utmMedium)
	params.Set("utm_campaign", adID)
	params.Set("utm_content", position+"_"+device)
	target.RawQuery = params.Encode()

	logger.Info("click redirect",
		zap.String("ad_id", adID),
		zap.String("position", position),
		zap.String("device", device),
		zap.String("day", day),
	)
	s.Metrics.IncrementEvent("click_redirect")
	s.Metrics.IncrementRequests(endpoint, method, "302")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	http.Redirect(w, r, target.String(), http.StatusFound)
}
