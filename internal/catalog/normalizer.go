// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Normalizer maps raw catalog records onto the canonical Song shape.
// Raw records have arbitrary-cased field names and stringified list
// fields; every parse here degrades to a default instead of failing.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a raw record to a Song. An error is returned only
// when the record has no usable identity (missing id and title).
func (n *Normalizer) Normalize(raw map[string]string) (Song, error) {
	rec := lowerKeys(raw)

	id := pick(rec, "id", "song_id", "songid")
	title := pick(rec, "title", "name", "song_title")
	if id == "" && title == "" {
		return Song{}, fmt.Errorf("record has neither id nor title")
	}
	if id == "" {
		id = slugify(title, pick(rec, "artist", "artist_name"))
	}

	song := Song{
		ID:          id,
		Title:       title,
		Artist:      pick(rec, "artist", "artist_name", "performer"),
		DurationSec: parseDurationSec(pick(rec, "duration", "duration_sec", "duration_seconds", "length")),
		Energy:      ParseEnergyTier(pick(rec, "energy", "energy_level", "tempo", "tempo_tier")),
		Difficulty:  ClampDifficulty(parseIntDefault(pick(rec, "difficulty", "difficulty_level", "level"), 5)),
		Key:         parseKey(pick(rec, "key", "key_signature")),
		Tags:        ParseTagList(pick(rec, "tags", "styles", "genres", "style_tags")),
		Recognition: clamp01(parseFloatDefault(pick(rec, "recognition", "recognition_score", "popularity"), 0)),
	}

	song.Engagement = parseEngagement(rec)

	return song, nil
}

// parseEngagement builds engagement counters when any counter field is
// present; songs without behavioral data carry nil.
func parseEngagement(rec map[string]string) *Engagement {
	playCount := pick(rec, "play_count", "plays", "playcount")
	playTime := pick(rec, "play_time", "cumulative_play_time", "total_play_time")
	exercise := pick(rec, "exercise_length", "max_exercise_length", "exercise_sec")

	if playCount == "" && playTime == "" && exercise == "" {
		return nil
	}

	return &Engagement{
		CumulativePlaySec: parseFloatDefault(playTime, 0),
		PlayCount:         parseIntDefault(playCount, 0),
		MaxExerciseSec:    parseFloatDefault(exercise, 0),
	}
}

// ParseTagList parses a stringified list field. It tolerates JSON arrays
// with doubled quotes and embedded newlines, falling back to comma
// splitting and finally to a single token. Never fails.
func ParseTagList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	// Try strict JSON first, then the doubled-quote CSV re-encoding.
	if tags, ok := tryJSONList(raw); ok {
		return tags
	}
	if tags, ok := tryJSONList(strings.ReplaceAll(raw, `""`, `"`)); ok {
		return tags
	}

	// Fall back to comma splitting; a value with no commas is one token.
	trimmed := strings.Trim(raw, "[]")
	parts := strings.Split(trimmed, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), `'"`))
		p = strings.ReplaceAll(p, "\n", " ")
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// tryJSONList attempts to decode raw as a JSON string array.
func tryJSONList(raw string) ([]string, bool) {
	if !strings.HasPrefix(raw, "[") {
		return nil, false
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out, true
}

// parseKey parses "C", "Am", "F# minor", "Bb major" style key strings.
func parseKey(raw string) KeySignature {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return KeySignature{Root: "C", Mode: KeyMajor}
	}

	lower := strings.ToLower(raw)
	mode := KeyMajor
	root := strings.Fields(raw)[0]
	switch {
	case strings.Contains(lower, "minor"):
		mode = KeyMinor
	case strings.Contains(lower, "major"):
		mode = KeyMajor
	case strings.HasSuffix(root, "m") && len(root) > 1:
		// Shorthand like "Am", "F#m", "Bbm".
		mode = KeyMinor
		root = strings.TrimSuffix(root, "m")
	}
	if root == "" {
		root = "C"
	}
	return KeySignature{Root: root, Mode: mode}
}

// ClampDifficulty clamps a difficulty level into [1, 10].
func ClampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 10 {
		return 10
	}
	return d
}

func lowerKeys(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func pick(rec map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// parseDurationSec accepts plain seconds ("225") or minute:second
// notation ("3:45"). Unparseable values yield 0.
func parseDurationSec(s string) int {
	s = strings.TrimSpace(s)
	if mins, secs, ok := strings.Cut(s, ":"); ok {
		m := parseIntDefault(mins, -1)
		sec := parseIntDefault(secs, -1)
		if m < 0 || sec < 0 || sec > 59 {
			return 0
		}
		return m*60 + sec
	}
	return parseIntDefault(s, 0)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return int(f)
	}
	return def
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func slugify(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "-"))
	var b strings.Builder
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
