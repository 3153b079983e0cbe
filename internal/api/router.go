// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fermata-labs/cadenza/internal/config"
	"github.com/fermata-labs/cadenza/internal/middleware"
)

// NewRouter assembles the chi router: global middleware, the API
// route group with rate limiting and metrics, and the prometheus
// endpoint.
func NewRouter(cfg config.ServerConfig, h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommendations", h.Recommendations)
		r.Get("/songs", h.Songs)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
