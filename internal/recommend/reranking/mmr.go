// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package reranking implements post-processing for recommendation
// diversity.
package reranking

import (
	"strings"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/recommend"
)

// Ensure MMR implements the engine's interface.
var _ recommend.Reranker = (*MMR)(nil)

// MMR implements simplified Maximal Marginal Relevance reranking: it
// greedily picks the candidate maximizing
//
//	lambda * relevance(i) - (1-lambda) * max(sim(i, s)) for s in selected
//
// where relevance is the candidate's composite score normalized to the
// list maximum and similarity is 1 when two songs share an artist or a
// primary mood, else 0. Selection is stable: ties go to the candidate
// with the better original rank.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR,
// Diversity-Based Reranking for Reordering Documents and Producing
// Summaries." SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates a reranker with the given relevance/diversity
// trade-off. Lambda is clamped to [0,1]; 1 means pure relevance.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k diverse songs from the ranked input. Never
// selects the same song twice; returns all candidates when fewer than
// k exist.
func (m *MMR) Rerank(items []recommend.ScoredSong, k int) []recommend.ScoredSong {
	if len(items) == 0 || k <= 0 {
		return []recommend.ScoredSong{}
	}
	if k > len(items) {
		k = len(items)
	}
	if m.lambda >= 1.0 {
		return items[:k]
	}

	maxScore := items[0].Score
	for _, item := range items[1:] {
		if item.Score > maxScore {
			maxScore = item.Score
		}
	}

	selected := make([]recommend.ScoredSong, 0, k)
	used := make([]bool, len(items))

	for len(selected) < k {
		bestIdx := -1
		bestMMR := 0.0

		for i := range items {
			if used[i] {
				continue
			}

			relevance := items[i].Score
			if maxScore > 0 {
				relevance /= maxScore
			}

			maxSim := 0.0
			for j := range selected {
				if similar(&items[i].Song, &selected[j].Song) {
					maxSim = 1.0
					break
				}
			}

			// Strict comparison keeps the earlier (better ranked)
			// candidate on ties.
			score := m.lambda*relevance - (1-m.lambda)*maxSim
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, items[bestIdx])
	}

	return selected
}

// similar reports whether two songs count as near-duplicates for
// diversity purposes: same artist or same fused primary mood.
func similar(a, b *catalog.Song) bool {
	if a.Artist != "" && strings.EqualFold(a.Artist, b.Artist) {
		return true
	}
	am, bm := a.PrimaryMood(), b.PrimaryMood()
	return am != "" && am == bm
}
