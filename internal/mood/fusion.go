// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package mood

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/behavior"
	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/metrics"
)

// Source weights. Catalog tags are the most trusted signal, behavioral
// patterns next, external classification after that, and cross-source
// tag agreement adds a small boost on top.
const (
	weightCatalog    = 0.4
	weightBehavioral = 0.3
	weightExternal   = 0.2
	weightMerged     = 0.1

	// catalogConfidence is the fixed confidence assigned to catalog
	// tags: curated but not mood-specific.
	catalogConfidence = 0.7

	// defaultConfidence is the profile confidence when no source
	// contributed anything.
	defaultConfidence = 0.1
)

// Fuse combines all available mood sources for a song into a single
// scored profile. It reads only the song's base fields and enrichment
// attachments, never a previous profile, so re-running it is a no-op.
func Fuse(s *catalog.Song) catalog.MoodProfile {
	scores := make(map[string]float64)
	var sources []string
	var confidences []float64

	if len(s.Tags) > 0 {
		addMatches(scores, s.Tags, weightCatalog*catalogConfidence)
		sources = append(sources, "catalog")
		confidences = append(confidences, catalogConfidence)
	}

	if s.Behavior != nil {
		hint, conf := behavior.MoodHint(*s.Behavior)
		if cat, ok := behaviorHintCategory[hint]; ok {
			scores[cat] += weightBehavioral * conf
		}
		sources = append(sources, "behavioral")
		confidences = append(confidences, conf)
	}

	if s.External != nil {
		extTags := s.External.Tags
		if IsCategory(s.External.MoodCategory) {
			extTags = append(append([]string(nil), extTags...), s.External.MoodCategory)
		}
		addMatches(scores, extTags, weightExternal*s.External.Confidence)
		sources = append(sources, "external")
		confidences = append(confidences, s.External.Confidence)

		// Agreement source: categories matched by the combined tag set
		// of catalog and external get a further boost.
		if len(s.Tags) > 0 {
			union := append(append([]string(nil), s.Tags...), extTags...)
			conf := (catalogConfidence + s.External.Confidence) / 2
			addMatches(scores, union, weightMerged*conf)
			sources = append(sources, "merged")
			confidences = append(confidences, conf)
		}
	}

	profile := catalog.MoodProfile{
		Primary:     primaryOf(scores),
		Scores:      scores,
		EnergyLevel: fuseEnergy(s),
		Confidence:  fuseConfidence(confidences),
		Sources:     sources,
	}
	profile.Reasoning = fmt.Sprintf("sources=%s primary=%s",
		strings.Join(sources, "+"), profile.Primary.Mood)
	return profile
}

// addMatches adds delta to every category whose keyword list matches
// one of the tags.
func addMatches(scores map[string]float64, tags []string, delta float64) {
	for _, cat := range Categories {
		if MatchesCategory(cat, tags) {
			scores[cat] += delta
		}
	}
}

// primaryOf picks the top-scoring category, breaking ties toward the
// alphabetically first one. With no scored category at all the profile
// is balanced: no single mood dominates.
func primaryOf(scores map[string]float64) catalog.MoodScore {
	best := catalog.MoodScore{Mood: "balanced"}
	for _, cat := range Categories {
		if score := scores[cat]; score > best.Score {
			best = catalog.MoodScore{Mood: cat, Score: score}
		}
	}
	return best
}

// fuseEnergy takes the confidence-weighted average of the behavioral
// and external energy estimates, rounded half up and clamped to the
// 1-5 tier range. With neither source present the level is the middle
// tier; the catalog tier stays a base attribute, not a mood signal.
func fuseEnergy(s *catalog.Song) int {
	var sum, weight float64

	if s.Behavior != nil {
		if hint, conf := behavior.MoodHint(*s.Behavior); conf > 0 {
			if cat, ok := behaviorHintCategory[hint]; ok {
				sum += float64(CategoryEnergy(cat)) * conf
				weight += conf
			}
		}
	}
	if s.External != nil && s.External.Confidence > 0 {
		sum += float64(s.External.Energy.Level()) * s.External.Confidence
		weight += s.External.Confidence
	}
	if weight == 0 {
		return 3
	}

	level := int(math.Floor(sum/weight + 0.5))
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return level
}

// fuseConfidence averages the per-source confidences, then adds 0.1
// per source beyond the first, bonus capped at 0.3 and the total at 1.
func fuseConfidence(confidences []float64) float64 {
	if len(confidences) == 0 {
		return defaultConfidence
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	conf := sum / float64(len(confidences))
	conf += min(0.3, float64(len(confidences)-1)*0.1)
	return min(1, conf)
}

// EnrichStore runs the fusion pass over the whole catalog. Every song
// gets a profile, including songs with no mood signal at all.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func EnrichStore(store *catalog.Store, logger zerolog.Logger) {
	start := time.Now()
	profiled := 0

	store.Apply(func(s *catalog.Song) {
		p := Fuse(s)
		s.Mood = &p
		if p.Primary.Score > 0 {
			profiled++
		}
	})

	metrics.EnrichmentPassDuration.WithLabelValues("fusion").Observe(time.Since(start).Seconds())
	logger.Debug().
		Int("profiled", profiled).
		Int("total", store.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("mood fusion pass complete")
}
