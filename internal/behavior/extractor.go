// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package behavior converts raw per-song engagement counters into a
// categorical engagement pattern and a derived mood hint.
package behavior

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/metrics"
)

// Extract classifies a song's engagement pattern. It is total: any
// combination of non-negative counters produces a valid signal, with
// zero play count or zero exercise length mapping to the unknown type.
func Extract(e catalog.Engagement) catalog.BehaviorSignal {
	if e.PlayCount == 0 || e.MaxExerciseSec == 0 {
		return catalog.BehaviorSignal{Type: catalog.BehaviorUnknown}
	}

	avgSession := e.CumulativePlaySec / float64(e.PlayCount)
	completion := avgSession / e.MaxExerciseSec
	engagement := e.CumulativePlaySec / e.MaxExerciseSec

	sig := catalog.BehaviorSignal{
		EngagementRatio: engagement,
		AvgSessionSec:   avgSession,
		CompletionRate:  completion,
		Type:            catalog.BehaviorUnknown,
	}

	// Classification priority order matters: the first match wins.
	switch {
	case e.PlayCount >= 2 && completion > 0.8:
		sig.Type = catalog.BehaviorComfortZone
		sig.Confidence = min(0.9, float64(e.PlayCount-1)*0.2+completion*0.5)
	case e.PlayCount == 1 && completion < 0.5:
		sig.Type = catalog.BehaviorChallengeAbandoned
		sig.Confidence = (1 - completion) * 0.7
	case e.PlayCount == 1 && completion > 0.8:
		sig.Type = catalog.BehaviorAppropriateChallenge
		// Completion exceeds 1 on looped replays; confidence must not.
		sig.Confidence = min(1, completion*0.6)
	case e.PlayCount >= 2 && completion < 0.6:
		sig.Type = catalog.BehaviorPersistentChallenge
		sig.Confidence = min(0.8, float64(e.PlayCount)*0.1+(1-completion)*0.4)
	}

	return sig
}

// MoodHint maps a behavioral type to a mood/energy hint with its own
// confidence. Unclassified patterns hint neutral at low confidence.
func MoodHint(sig catalog.BehaviorSignal) (string, float64) {
	switch sig.Type {
	case catalog.BehaviorComfortZone:
		return "familiar_positive", sig.Confidence
	case catalog.BehaviorChallengeAbandoned:
		return "challenging_negative", sig.Confidence
	case catalog.BehaviorAppropriateChallenge:
		return "engaging_positive", sig.Confidence
	case catalog.BehaviorPersistentChallenge:
		return "determined_challenging", sig.Confidence
	default:
		return "neutral", 0.3
	}
}

// EnrichStore runs the behavioral extraction pass over the whole
// catalog. Idempotent: re-running recomputes the same signals.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func EnrichStore(store *catalog.Store, logger zerolog.Logger) {
	start := time.Now()
	classified := 0

	store.Apply(func(s *catalog.Song) {
		if s.Engagement == nil {
			return
		}
		sig := Extract(*s.Engagement)
		s.Behavior = &sig
		if sig.Type != catalog.BehaviorUnknown {
			classified++
		}
	})

	metrics.EnrichmentPassDuration.WithLabelValues("behavioral").Observe(time.Since(start).Seconds())
	logger.Debug().
		Int("classified", classified).
		Dur("elapsed", time.Since(start)).
		Msg("behavioral enrichment pass complete")
}
