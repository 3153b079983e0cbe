// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package tagger classifies songs with style tags, an energy tier, and
// a mood category. The primary implementation calls an LLM with a
// strict JSON schema; a local keyword fallback covers every song the
// external call cannot.
package tagger

import (
	"context"
	"fmt"
	"strings"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/mood"
)

// Tagger produces an external classification for one song.
type Tagger interface {
	Tag(ctx context.Context, song catalog.Song) (catalog.ExternalTags, error)
}

// classification is the structured output contract for the external
// classifier. Field enums are enforced through the generated schema
// and re-validated on receipt.
type classification struct {
	Tags         []string `json:"tags" jsonschema_description:"Two to five short style or genre tags"`
	Energy       string   `json:"energy" jsonschema:"enum=very_low,enum=low,enum=medium,enum=high,enum=very_high"`
	MoodCategory string   `json:"mood_category" jsonschema:"enum=energetic,enum=peaceful,enum=happy,enum=melancholic,enum=romantic,enum=nostalgic,enum=focused,enum=social,enum=balanced"`
	Confidence   float64  `json:"confidence" jsonschema_description:"Classification confidence between 0 and 1"`
	Reasoning    string   `json:"reasoning" jsonschema_description:"One short sentence explaining the classification"`
}

// toExternalTags validates a raw classification and converts it to the
// catalog representation. Invalid mood categories reject the whole
// response rather than silently coercing it.
func (c classification) toExternalTags() (catalog.ExternalTags, error) {
	category := strings.ToLower(strings.TrimSpace(c.MoodCategory))
	if category != "balanced" && !mood.IsCategory(category) {
		return catalog.ExternalTags{}, fmt.Errorf("tagger: invalid mood category %q", c.MoodCategory)
	}

	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}

	conf := c.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return catalog.ExternalTags{
		Tags:         tags,
		Energy:       catalog.ParseEnergyTier(c.Energy),
		MoodCategory: category,
		Confidence:   conf,
		Reasoning:    strings.TrimSpace(c.Reasoning),
		Source:       "llm",
	}, nil
}
