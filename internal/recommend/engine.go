// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/metrics"
)

// DefaultTopK is the result list size.
const DefaultTopK = 10

// Engine turns a catalog snapshot plus a profile and context into a
// ranked recommendation list. Scoring is pure CPU work over in-memory
// data; the store is the only shared state and is read-mostly.
type Engine struct {
	store    *catalog.Store
	reranker Reranker
	topK     int
	logger   zerolog.Logger
}

// NewEngine builds an engine. reranker may be nil, in which case the
// ranked list is truncated without a diversity pass.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(store *catalog.Store, reranker Reranker, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		reranker: reranker,
		topK:     DefaultTopK,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend produces the ranked top-K list for one request. An empty
// list is a valid outcome when filtering leaves no candidates; it is
// never an error.
func (e *Engine) Recommend(profile UserProfile, ctx Context) []ScoredSong {
	start := time.Now()
	metrics.RecommendRequestsTotal.Inc()

	profile = profile.Clamped()
	songs := e.store.Snapshot()
	pool := Filter(songs, profile, ctx)
	metrics.RecommendCandidatePoolSize.Observe(float64(len(pool)))

	if len(pool) == 0 {
		metrics.RecommendEmptyPoolTotal.Inc()
		e.logger.Debug().
			Str("mood", ctx.Mood).
			Str("goal", string(ctx.Goal)).
			Msg("empty candidate pool after filtering and widening")
		return []ScoredSong{}
	}

	weights := Weights(profile, ctx)
	scored := make([]ScoredSong, 0, len(pool))
	for i := range pool {
		scored = append(scored, scoreSong(&pool[i], profile, ctx, weights))
	}

	scored = dedupeKeepHigher(scored)

	// Deterministic order: score descending, song id ascending on ties.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Song.ID < scored[j].Song.ID
	})

	if e.reranker != nil {
		scored = e.reranker.Rerank(scored, e.topK)
	} else if len(scored) > e.topK {
		scored = scored[:e.topK]
	}

	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	e.logger.Debug().
		Int("pool", len(pool)).
		Int("returned", len(scored)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation computed")
	return scored
}

// dedupeKeepHigher collapses duplicate song ids, keeping the higher
// scored instance.
func dedupeKeepHigher(items []ScoredSong) []ScoredSong {
	best := make(map[string]int, len(items))
	out := items[:0]
	for _, item := range items {
		idx, ok := best[item.Song.ID]
		if !ok {
			best[item.Song.ID] = len(out)
			out = append(out, item)
			continue
		}
		if item.Score > out[idx].Score {
			out[idx] = item
		}
	}
	return out
}
