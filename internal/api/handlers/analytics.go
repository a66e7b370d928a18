package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/internal/realtime"
	"github.com/tradelens/backend/internal/report"
	"github.com/tradelens/backend/pkg/logger"
)

const defaultRangeDays = 30

// RunsReader lists recent compute-run audit rows. Nil disables the
// runs endpoint.
type RunsReader interface {
	RecentRuns(ctx context.Context, userID string, limit int) ([]report.ComputeRun, error)
}

// AnalyticsHandler handles behavioral analytics API endpoints
// ⭐ SSOT: analytics request parsing lives only in this file
type AnalyticsHandler struct {
	service *report.Service
	runs    RunsReader
	hub     *realtime.Hub
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *report.Service, runs RunsReader, hub *realtime.Hub, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		runs:    runs,
		hub:     hub,
		logger:  log,
	}
}

// GetSummary returns the full behavioral summary
// GET /api/analytics/summary?user_id=&from=&to=
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, dateRange, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, dateRange)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute summary")
		respondError(w, http.StatusBadGateway, "Failed to compute summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetTimeline returns daily equity points and weekday aggregates
// GET /api/analytics/timeline?user_id=&from=&to=
func (h *AnalyticsHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userID, dateRange, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	timeline, err := h.service.Timeline(r.Context(), userID, dateRange)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute timeline")
		respondError(w, http.StatusBadGateway, "Failed to compute timeline")
		return
	}

	respondJSON(w, http.StatusOK, timeline)
}

// GetHeatmap returns performance cells by time-of-week and by symbol
// GET /api/analytics/heatmap?user_id=&from=&to=
func (h *AnalyticsHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	userID, dateRange, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	heatmap, err := h.service.Heatmap(r.Context(), userID, dateRange)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute heatmap")
		respondError(w, http.StatusBadGateway, "Failed to compute heatmap")
		return
	}

	respondJSON(w, http.StatusOK, heatmap)
}

// WhatIfRequest carries the range and the counterfactual scenarios
type WhatIfRequest struct {
	From      string                  `json:"from"` // YYYY-MM-DD
	To        string                  `json:"to"`   // YYYY-MM-DD, exclusive
	Scenarios []analytics.TradeFilter `json:"scenarios"`
}

// RunWhatIf replays the range under each filter scenario
// POST /api/analytics/whatif?user_id=
func (h *AnalyticsHandler) RunWhatIf(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var req WhatIfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Scenarios) == 0 {
		respondError(w, http.StatusBadRequest, "At least one scenario is required")
		return
	}

	dateRange, err := parseRange(req.From, req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i, filter := range req.Scenarios {
		if err := filter.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("scenario %d: %v", i, err))
			return
		}
	}

	results, err := h.service.WhatIf(r.Context(), userID, dateRange, req.Scenarios)
	if err != nil {
		h.logger.WithError(err).Error("Failed to run what-if simulation")
		respondError(w, http.StatusBadGateway, "Failed to run simulation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// Invalidate drops the user's cached reports and notifies dashboards
// POST /api/analytics/invalidate?user_id=
func (h *AnalyticsHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	deleted, err := h.service.Invalidate(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to invalidate cache")
		respondError(w, http.StatusBadGateway, "Failed to invalidate cache")
		return
	}

	if h.hub != nil {
		h.hub.Notify(userID, realtime.EventCacheInvalidated)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"deleted": deleted,
	})
}

// GetRuns lists the user's recent compute runs, newest first
// GET /api/analytics/runs?user_id=&limit=
func (h *AnalyticsHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "Run auditing is disabled")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.RecentRuns(r.Context(), userID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list compute runs")
		respondError(w, http.StatusBadGateway, "Failed to list compute runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// parseQuery extracts user_id and the date range from query params.
// Missing from/to default to the last 30 days.
func (h *AnalyticsHandler) parseQuery(w http.ResponseWriter, r *http.Request) (string, contracts.DateRange, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return "", contracts.DateRange{}, false
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		return userID, contracts.LastNDays(time.Now().UTC(), defaultRangeDays), true
	}

	dateRange, err := parseRange(from, to)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", contracts.DateRange{}, false
	}

	return userID, dateRange, true
}

func parseRange(from, to string) (contracts.DateRange, error) {
	fromTime, err := time.ParseInLocation("2006-01-02", from, time.UTC)
	if err != nil {
		return contracts.DateRange{}, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", from)
	}
	toTime, err := time.ParseInLocation("2006-01-02", to, time.UTC)
	if err != nil {
		return contracts.DateRange{}, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", to)
	}

	dateRange := contracts.DateRange{From: fromTime, To: toTime}
	if err := dateRange.Validate(); err != nil {
		return contracts.DateRange{}, err
	}
	return dateRange, nil
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
