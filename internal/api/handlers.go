// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/excursio/excursio/internal/catalog"
	"github.com/excursio/excursio/internal/engine"
	"github.com/excursio/excursio/internal/models"
	"github.com/excursio/excursio/internal/validation"
)

// maxBodyBytes caps request body size.
const maxBodyBytes = 1 << 20

// Handler serves the recommendation API endpoints.
type Handler struct {
	engine  *engine.Engine
	catalog *catalog.Store
	logger  zerolog.Logger
	started time.Time
}

// NewHandler creates the API handler set.
func NewHandler(eng *engine.Engine, cat *catalog.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:  eng,
		catalog: cat,
		logger:  logger.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

// Health reports service liveness and catalog state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"catalog_items":  h.catalog.Len(),
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// recommendationsResponse wraps a generated recommendation list.
type recommendationsResponse struct {
	Recommendations []models.RecommendationResult `json:"recommendations"`
	Count           int                           `json:"count"`
}

// GenerateRecommendations handles POST /api/v1/recommendations.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.engine.GenerateRecommendations(&req)
	respondJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: results,
		Count:           len(results),
	})
}

// feedbackRequest is the body of POST /api/v1/recommendations/feedback.
type feedbackRequest struct {
	UserID           string  `json:"user_id" validate:"required"`
	RecommendationID string  `json:"recommendation_id" validate:"required"`
	Rating           float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Feedback         string  `json:"feedback"`
}

// SubmitFeedback handles POST /api/v1/recommendations/feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ProcessFeedback(req.UserID, req.RecommendationID, req.Rating, req.Feedback); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "feedback processed"})
}

// preferencesRequest is the body of POST /api/v1/recommendations/preferences.
type preferencesRequest struct {
	UserID      string                 `json:"user_id" validate:"required"`
	Preferences models.UserPreferences `json:"preferences"`
}

// UpdatePreferences handles POST /api/v1/recommendations/preferences.
// Updating an unknown user is accepted and has no effect until that user
// requests recommendations.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.engine.UpdateUserPreferences(req.UserID, req.Preferences)
	respondJSON(w, http.StatusOK, map[string]string{"status": "preferences updated"})
}

// UserRecommendations handles GET /api/v1/recommendations/user/{userID}.
// The optional limit query parameter caps the result count.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userID is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "limit must be an integer within [1, 100]")
			return
		}
		limit = parsed
	}

	results := h.engine.GetUserRecommendations(userID, limit)
	respondJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: results,
		Count:           len(results),
	})
}

// Stats handles GET /api/v1/recommendations/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.GetStats())
}

// decodeBody decodes a size-limited JSON request body, writing the error
// response itself on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
