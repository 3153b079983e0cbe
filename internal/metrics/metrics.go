// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package metrics exposes Prometheus instrumentation for the API surface,
// the recommendation engine, and the external tagger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadenza_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation engine metrics

	RecommendRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadenza_recommend_requests_total",
			Help: "Total number of recommendation requests processed",
		},
	)

	RecommendCandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadenza_recommend_candidate_pool_size",
			Help:    "Candidate pool size after contextual filtering",
			Buckets: []float64{0, 10, 25, 50, 100, 200, 500, 1000},
		},
	)

	RecommendEmptyPoolTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadenza_recommend_empty_pool_total",
			Help: "Requests where filtering and relaxation produced no candidates",
		},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadenza_recommend_duration_seconds",
			Help:    "Recommendation scoring and reranking duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Enrichment metrics

	EnrichmentPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadenza_enrichment_pass_duration_seconds",
			Help:    "Duration of catalog enrichment passes in seconds",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 60, 300},
		},
		[]string{"pass"}, // "behavioral", "fusion", "external_tags"
	)

	// External tagger metrics

	TaggerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadenza_tagger_calls_total",
			Help: "Total number of external tagger calls by outcome",
		},
		[]string{"outcome"}, // "success", "fallback", "rejected"
	)

	TaggerCircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadenza_tagger_circuit_breaker_state",
			Help: "External tagger circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
