// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package mood defines the closed mood vocabulary and fuses catalog,
// behavioral, and external mood signals into one confidence-scored
// profile per song.
package mood

import "strings"

// Categories is the closed set of mood categories, in alphabetical
// order. Fusion iterates this slice so tie-breaks are deterministic:
// on equal scores the alphabetically first category wins.
var Categories = []string{
	"energetic",
	"focused",
	"happy",
	"melancholic",
	"nostalgic",
	"peaceful",
	"romantic",
	"social",
}

// Keywords maps each category to the tag keywords that signal it.
// Matching is fuzzy substring matching in both directions, so "upbeat
// pop" matches "upbeat" and "chill" matches "chillout".
var Keywords = map[string][]string{
	"energetic":   {"energetic", "upbeat", "fast", "dance", "power", "intense", "driving"},
	"focused":     {"focused", "study", "concentration", "instrumental", "minimal", "ambient"},
	"happy":       {"happy", "joyful", "cheerful", "bright", "fun", "sunny"},
	"melancholic": {"melancholic", "sad", "somber", "dark", "blue", "mournful"},
	"nostalgic":   {"nostalgic", "retro", "vintage", "oldies", "classic", "memory"},
	"peaceful":    {"peaceful", "calm", "relaxing", "soft", "gentle", "chill", "soothing"},
	"romantic":    {"romantic", "love", "tender", "intimate", "sweet", "ballad"},
	"social":      {"social", "party", "sing-along", "singalong", "anthem", "crowd"},
}

// EnergyByCategory is the category-to-energy lookup used when a source
// supplies a mood but no explicit energy tier.
var EnergyByCategory = map[string]int{
	"energetic": 5,
	"peaceful":  2,
	"focused":   3,
	"happy":     4,
}

// behaviorHintCategory maps behavioral mood hints onto the closed
// category set. The neutral hint contributes to no category.
var behaviorHintCategory = map[string]string{
	"familiar_positive":      "happy",
	"engaging_positive":      "energetic",
	"determined_challenging": "focused",
	"challenging_negative":   "melancholic",
}

// IsCategory reports whether s is one of the closed mood categories.
func IsCategory(s string) bool {
	_, ok := Keywords[strings.ToLower(s)]
	return ok
}

// CategoryEnergy returns the energy level for a category, defaulting
// to 3 for categories without an explicit entry.
func CategoryEnergy(category string) int {
	if e, ok := EnergyByCategory[strings.ToLower(category)]; ok {
		return e
	}
	return 3
}

// MatchesCategory reports whether any of the tags fuzzy-matches the
// category's keyword list.
func MatchesCategory(category string, tags []string) bool {
	keywords := Keywords[category]
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(tag, kw) || strings.Contains(kw, tag) {
				return true
			}
		}
	}
	return false
}
