// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package tagger

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/logging"
	"github.com/fermata-labs/cadenza/internal/metrics"
)

// BreakerTagger wraps a Tagger with a circuit breaker so a failing
// classifier endpoint stops the enrichment pass from hammering it.
// Breaker timing uses real time; tests exercise the wrapped tagger.
type BreakerTagger struct {
	inner Tagger
	cb    *gobreaker.CircuitBreaker[catalog.ExternalTags]
}

// NewBreakerTagger wraps inner with a breaker that opens after 5
// consecutive failures and retries a single probe after 30 seconds.
func NewBreakerTagger(inner Tagger) *BreakerTagger {
	metrics.TaggerCircuitBreakerState.Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[catalog.ExternalTags](gobreaker.Settings{
		Name:        "external-tagger",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("tagger circuit breaker state transition")
			metrics.TaggerCircuitBreakerState.Set(stateToFloat(to))
		},
	})

	return &BreakerTagger{inner: inner, cb: cb}
}

// Tag delegates to the wrapped tagger through the breaker.
func (b *BreakerTagger) Tag(ctx context.Context, song catalog.Song) (catalog.ExternalTags, error) {
	return b.cb.Execute(func() (catalog.ExternalTags, error) {
		return b.inner.Tag(ctx, song)
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
