package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/predict"
	"github.com/squidworks/gridiron/internal/scheduler"
	"github.com/squidworks/gridiron/internal/service"
	"github.com/squidworks/gridiron/internal/store"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db    *store.Database
	svc   *service.PredictionService
	sched *scheduler.Scheduler
	log   *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, svc *service.PredictionService, sched *scheduler.Scheduler, log *logrus.Logger) *Handler {
	return &Handler{
		db:    db,
		svc:   svc,
		sched: sched,
		log:   log,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetPredictions returns the latest prediction run, ranked
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	preds, err := h.svc.LatestPredictions(r.Context())
	if errors.Is(err, predict.ErrNoPredictions) {
		respondError(w, http.StatusNotFound, "No prediction run available yet", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}

// GetTopPredictions returns the top N players from the latest run
func (h *Handler) GetTopPredictions(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 0 // 0 means configured default
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > 500 {
			respondError(w, http.StatusBadRequest, "Invalid limit (must be 1-500)", err)
			return
		}
		limit = l
	}

	preds, err := h.svc.TopPredictions(r.Context(), limit)
	if errors.Is(err, predict.ErrNoPredictions) {
		respondError(w, http.StatusNotFound, "No prediction run available yet", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}

// RunPredictions triggers a prediction run over the currently stored stats
func (h *Handler) RunPredictions(w http.ResponseWriter, r *http.Request) {
	preds, err := h.svc.RunPredictions(r.Context())
	if errors.Is(err, predict.ErrMissingInputData) {
		respondError(w, http.StatusConflict, "No game stats ingested yet", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Prediction run failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Prediction run completed",
		"count":   len(preds),
	})
}

// GetPlayerTrend returns a player's seasonal history and trend slope
func (h *Handler) GetPlayerTrend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["playerID"]

	trend, err := h.svc.GetPlayerTrend(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Player trend unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, trend)
}

// GetPlayerSeasons returns a player's seasonal summaries
func (h *Handler) GetPlayerSeasons(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["playerID"]

	seasons, err := h.svc.GetPlayerSeasons(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Player seasons unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"seasons":   seasons,
		"count":     len(seasons),
	})
}

// RefreshDataset forces a dataset refresh and prediction re-run in the
// background.
func (h *Handler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	go func() {
		// detached from the request context so the cycle survives the response
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := h.sched.RunCycle(ctx, true); err != nil {
			h.log.WithError(err).Error("manual refresh cycle failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Refresh started",
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
