// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package tagger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/metrics"
)

// Enricher runs the external tagging pass over a catalog store. Songs
// the external tagger cannot classify, for any reason, get the local
// fallback instead, so after a pass every song carries external tags.
type Enricher struct {
	tagger      Tagger
	fallback    FallbackTagger
	timeout     time.Duration
	concurrency int
	logger      zerolog.Logger
}

// NewEnricher builds an enrichment pass runner. A nil tagger means
// fallback-only operation.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEnricher(t Tagger, timeout time.Duration, concurrency int, logger zerolog.Logger) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		tagger:      t,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "tagger").Logger(),
	}
}

// Run tags every song in the store that has no external classification
// yet. Returns early only on context cancellation; per-song failures
// degrade to the fallback and the pass continues.
func (e *Enricher) Run(ctx context.Context, store *catalog.Store) error {
	start := time.Now()
	songs := store.Snapshot()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, song := range songs {
		if song.External != nil && song.External.Source == "llm" {
			continue
		}
		g.Go(func() error {
			tags := e.tagSong(ctx, song)
			store.Update(song.ID, func(s *catalog.Song) {
				s.External = &tags
			})
			return ctx.Err()
		})
	}

	err := g.Wait()
	metrics.EnrichmentPassDuration.WithLabelValues("external_tags").Observe(time.Since(start).Seconds())
	e.logger.Info().
		Int("songs", len(songs)).
		Dur("elapsed", time.Since(start)).
		Msg("external tagging pass complete")
	return err
}

// tagSong classifies one song with a per-song deadline, degrading to
// the fallback on any failure.
func (e *Enricher) tagSong(ctx context.Context, song catalog.Song) catalog.ExternalTags {
	if e.tagger == nil {
		tags, _ := e.fallback.Tag(ctx, song)
		metrics.TaggerCallsTotal.WithLabelValues("fallback").Inc()
		return tags
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tags, err := e.tagger.Tag(callCtx, song)
	if err == nil {
		metrics.TaggerCallsTotal.WithLabelValues("success").Inc()
		return tags
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.TaggerCallsTotal.WithLabelValues("rejected").Inc()
	} else {
		metrics.TaggerCallsTotal.WithLabelValues("fallback").Inc()
		e.logger.Warn().Err(err).Str("song_id", song.ID).Msg("external tagger failed, using fallback")
	}

	tags, _ = e.fallback.Tag(ctx, song)
	return tags
}
