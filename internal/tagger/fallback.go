// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package tagger

import (
	"context"
	"strings"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/mood"
)

// FallbackTagger is the local deterministic classifier used when the
// external tagger is disabled or unavailable. It matches the mood
// vocabulary against the song's title and artist, so its confidence is
// capped low: it sees words, not the song. Catalog tags are left to the
// fusion's own catalog source rather than counted twice here.
type FallbackTagger struct{}

// Tag never fails and never blocks.
func (FallbackTagger) Tag(_ context.Context, song catalog.Song) (catalog.ExternalTags, error) {
	candidates := []string{strings.ToLower(song.Title), strings.ToLower(song.Artist)}

	best := "balanced"
	bestHits := 0
	for _, cat := range mood.Categories {
		hits := 0
		for _, c := range candidates {
			if mood.MatchesCategory(cat, []string{c}) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cat, hits
		}
	}

	out := catalog.ExternalTags{
		MoodCategory: best,
		Energy:       song.Energy,
		Confidence:   0.15,
		Reasoning:    "keyword fallback",
		Source:       "fallback",
	}
	if bestHits > 0 {
		out.Tags = []string{best}
		out.Energy = catalog.EnergyTier(mood.CategoryEnergy(best))
		out.Confidence = 0.3
	}
	return out, nil
}
