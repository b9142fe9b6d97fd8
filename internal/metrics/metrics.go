// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation generation volume
// - Feedback ingestion
// - Catalog and model state

var (
	// API Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "excursio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "excursio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Recommendation Metrics
	RecommendationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "excursio_recommendations_generated_total",
			Help: "Total number of recommendations generated",
		},
	)

	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "excursio_recommendation_generation_seconds",
			Help:    "Latency of a full recommendation generation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedbackProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "excursio_feedback_processed_total",
			Help: "Total number of feedback submissions processed",
		},
	)

	// Model State Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "excursio_catalog_items",
			Help: "Current number of items in the catalog",
		},
	)

	KnownUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "excursio_known_users",
			Help: "Current number of users with profiles",
		},
	)

	SimilarityRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "excursio_similarity_rebuilds_total",
			Help: "Total number of collaborative similarity table rebuilds",
		},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}
