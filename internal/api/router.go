// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

// Package api provides HTTP routing using the Chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/excursio/excursio/internal/metrics"
)

// RouterConfig holds the HTTP surface parameters.
type RouterConfig struct {
	// RateLimit is requests per client IP per minute. Zero disables
	// rate limiting.
	RateLimit int

	// CORSOrigins lists allowed origins. Empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter assembles the full route tree over the given handler set.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.Use(prometheusMetrics)

	// Health endpoints get a permissive limit so probes never starve.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/health", h.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", h.GenerateRecommendations)
			r.Post("/feedback", h.SubmitFeedback)
			r.Post("/preferences", h.UpdatePreferences)
			r.Get("/user/{userID}", h.UserRecommendations)
			r.Get("/stats", h.Stats)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// prometheusMetrics records request counts and latency per route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}
		metrics.RecordHTTPRequest(r.Method, path, ww.Status(), time.Since(start))
	})
}
