// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package main is the entry point for the Cadenza server.
//
// Cadenza recommends songs to music learners given their profile and a
// situational context (mood, time of day, available practice time,
// goal). Startup proceeds in order:
//
//  1. Configuration: layered via Koanf v2 (defaults, config.yaml,
//     CADENZA_ environment overrides)
//  2. Catalog: CSV load through the normalizer into the in-memory store
//  3. Enrichment: behavioral extraction, optional external tagging
//     (OpenAI classifier with circuit breaker and local fallback),
//     then mood fusion
//  4. HTTP server: chi REST API plus a Prometheus /metrics endpoint
//
// The server shuts down gracefully on SIGINT and SIGTERM, waiting up
// to 10 seconds for in-flight requests.
//
// Example usage:
//
//	export CADENZA_CATALOG_PATH=catalog.csv
//	export CADENZA_TAGGER_ENABLED=true
//	export OPENAI_API_KEY=sk-...
//	./cadenza-server
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fermata-labs/cadenza/internal/api"
	"github.com/fermata-labs/cadenza/internal/behavior"
	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/config"
	"github.com/fermata-labs/cadenza/internal/logging"
	"github.com/fermata-labs/cadenza/internal/mood"
	"github.com/fermata-labs/cadenza/internal/recommend"
	"github.com/fermata-labs/cadenza/internal/recommend/reranking"
	"github.com/fermata-labs/cadenza/internal/tagger"
)

// rerankLambda is the relevance/diversity trade-off for the MMR pass.
const rerankLambda = 0.7

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog", cfg.Catalog.Path).
		Bool("tagger_enabled", cfg.Tagger.Enabled).
		Msg("Starting Cadenza")

	loader := catalog.NewLoader(logging.Logger())
	songs, err := loader.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}
	store := catalog.NewStore(songs)
	logging.Info().Int("songs", store.Len()).Msg("Catalog loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Enrichment passes run before the server accepts traffic, so
	// scoring never observes partially enriched records.
	behavior.EnrichStore(store, logging.Logger())

	enricher := tagger.NewEnricher(buildTagger(cfg), cfg.Tagger.Timeout, cfg.Tagger.Concurrency, logging.Logger())
	if err := enricher.Run(ctx, store); err != nil {
		logging.Fatal().Err(err).Msg("External tagging pass interrupted")
	}

	mood.EnrichStore(store, logging.Logger())
	logging.Info().Msg("Catalog enrichment complete")

	profile := recommend.UserProfile{
		SkillLevel:       cfg.Profile.SkillLevel,
		Instrument:       cfg.Profile.Instrument,
		GenrePreferences: cfg.Profile.GenrePreferences,
		LearningStyle:    recommend.ParseLearningStyle(cfg.Profile.LearningStyle),
		PopularityWeight: cfg.Profile.PopularityWeight,
	}
	engine := recommend.NewEngine(store, reranking.NewMMR(rerankLambda), logging.Logger())
	handler := api.NewHandler(store, engine, profile, logging.Logger())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg.Server, handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Shutdown complete")
}

// buildTagger assembles the external tagger chain, or returns nil for
// fallback-only operation when the tagger is disabled or no API key is
// configured.
func buildTagger(cfg *config.Config) tagger.Tagger {
	if !cfg.Tagger.Enabled {
		return nil
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logging.Warn().Msg("Tagger enabled but OPENAI_API_KEY is unset; using local fallback only")
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return tagger.NewBreakerTagger(tagger.NewOpenAITagger(&client, cfg.Tagger))
}
