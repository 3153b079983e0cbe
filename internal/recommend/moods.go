// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"strings"

	"github.com/fermata-labs/cadenza/internal/mood"
)

// alignmentKeywords is the scoring-side mood vocabulary. It is richer
// than the fusion vocabulary: it includes synonyms and the transient
// context moods (tired, stressed, excited) a learner types in, mapped
// to the tags that suit them.
var alignmentKeywords = map[string][]string{
	"energetic":   {"energetic", "upbeat", "fast", "dance", "power", "intense", "driving", "lively", "pumped"},
	"focused":     {"focused", "study", "concentration", "instrumental", "minimal", "ambient", "steady"},
	"happy":       {"happy", "joyful", "cheerful", "bright", "fun", "sunny", "uplifting", "feel-good"},
	"melancholic": {"melancholic", "sad", "somber", "dark", "blue", "mournful", "bittersweet", "rainy"},
	"nostalgic":   {"nostalgic", "retro", "vintage", "oldies", "classic", "memory", "throwback"},
	"peaceful":    {"peaceful", "calm", "relaxing", "soft", "gentle", "chill", "soothing", "mellow", "quiet"},
	"romantic":    {"romantic", "love", "tender", "intimate", "sweet", "ballad", "serenade"},
	"social":      {"social", "party", "sing-along", "singalong", "anthem", "crowd", "festive"},
	"tired":       {"calm", "soft", "gentle", "soothing", "mellow", "slow", "lullaby"},
	"stressed":    {"calm", "relaxing", "peaceful", "ambient", "soothing", "meditative"},
	"excited":     {"upbeat", "energetic", "dance", "party", "fun", "anthem"},
	"balanced":    {"melodic", "smooth", "easy", "classic", "popular"},
}

// contextMoodAlias folds transient context moods onto the closed
// category set used for direct mood-category matching.
var contextMoodAlias = map[string]string{
	"tired":    "peaceful",
	"stressed": "peaceful",
	"excited":  "energetic",
}

// moodEnergyLevel maps a context mood to its preferred 1-5 energy
// level for the energy-match bonus.
var moodEnergyLevel = map[string]int{
	"energetic":   5,
	"excited":     5,
	"happy":       4,
	"social":      4,
	"nostalgic":   3,
	"romantic":    3,
	"focused":     3,
	"balanced":    3,
	"melancholic": 2,
	"peaceful":    2,
	"stressed":    2,
	"tired":       1,
}

// canonicalMood lowercases a free-form context mood and resolves it to
// a known vocabulary entry, defaulting to "balanced" rather than
// failing on unknown input.
func canonicalMood(s string) string {
	m := strings.ToLower(strings.TrimSpace(s))
	if _, ok := alignmentKeywords[m]; ok {
		return m
	}
	return "balanced"
}

// moodCategoryFor resolves a context mood to the fusion category used
// for direct primary-mood matching. Returns "" when the mood has no
// category equivalent.
func moodCategoryFor(contextMood string) string {
	m := canonicalMood(contextMood)
	if alias, ok := contextMoodAlias[m]; ok {
		return alias
	}
	if mood.IsCategory(m) {
		return m
	}
	return ""
}

// matchesMoodKeyword reports whether a single tag fuzzy-matches the
// mood's keyword list (substring match in either direction).
func matchesMoodKeyword(contextMood, tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, kw := range alignmentKeywords[canonicalMood(contextMood)] {
		if strings.Contains(tag, kw) || strings.Contains(kw, tag) {
			return true
		}
	}
	return false
}

// styleHintsFor returns the tag hints the candidate filter uses for a
// context mood. Unknown moods hint nothing, which disables the style
// constraint rather than excluding everything.
func styleHintsFor(contextMood string) []string {
	m := strings.ToLower(strings.TrimSpace(contextMood))
	if kws, ok := alignmentKeywords[m]; ok {
		return kws
	}
	return nil
}
