// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package catalog defines the canonical song model and the in-memory
// catalog store. The Normalizer is the only place raw external record
// shapes are touched; everything downstream works with typed Songs.
package catalog

import "strings"

// EnergyTier is the five-level ordinal tempo/energy classification.
type EnergyTier int

const (
	EnergyVeryLow EnergyTier = iota + 1
	EnergyLow
	EnergyMedium
	EnergyHigh
	EnergyVeryHigh
)

// String returns the canonical tier name.
func (e EnergyTier) String() string {
	switch e {
	case EnergyVeryLow:
		return "very_low"
	case EnergyLow:
		return "low"
	case EnergyMedium:
		return "medium"
	case EnergyHigh:
		return "high"
	case EnergyVeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

// Level returns the tier as a 1-5 integer, defaulting to 3 for
// unclassified values.
func (e EnergyTier) Level() int {
	if e < EnergyVeryLow || e > EnergyVeryHigh {
		return 3
	}
	return int(e)
}

// ParseEnergyTier maps a raw tier string to an EnergyTier.
// Unrecognized values default to medium rather than failing.
func ParseEnergyTier(s string) EnergyTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "very_low", "very low", "verylow", "1":
		return EnergyVeryLow
	case "low", "2":
		return EnergyLow
	case "medium", "mid", "moderate", "3":
		return EnergyMedium
	case "high", "4":
		return EnergyHigh
	case "very_high", "very high", "veryhigh", "5":
		return EnergyVeryHigh
	default:
		return EnergyMedium
	}
}

// KeyMode is the tonality of a key signature.
type KeyMode int

const (
	KeyMajor KeyMode = iota
	KeyMinor
)

// String returns "major" or "minor".
func (m KeyMode) String() string {
	if m == KeyMinor {
		return "minor"
	}
	return "major"
}

// KeySignature is a root note plus major/minor mode.
type KeySignature struct {
	Root string  `json:"root"`
	Mode KeyMode `json:"mode"`
}

// Engagement holds per-song raw engagement counters. Present only when
// behavioral data exists for the song.
type Engagement struct {
	// CumulativePlaySec is total playback time across all sessions.
	CumulativePlaySec float64 `json:"cumulative_play_sec"`

	// PlayCount is the number of play sessions.
	PlayCount int `json:"play_count"`

	// MaxExerciseSec is the longest observed exercise length.
	MaxExerciseSec float64 `json:"max_exercise_sec"`
}

// BehaviorType classifies a song's engagement pattern.
type BehaviorType string

const (
	BehaviorComfortZone          BehaviorType = "comfort_zone"
	BehaviorChallengeAbandoned   BehaviorType = "challenge_abandoned"
	BehaviorAppropriateChallenge BehaviorType = "appropriate_challenge"
	BehaviorPersistentChallenge  BehaviorType = "persistent_challenge"
	BehaviorUnknown              BehaviorType = "unknown"
)

// BehaviorSignal is the output of behavioral extraction, attached to a
// song during enrichment.
type BehaviorSignal struct {
	// EngagementRatio is cumulative play time over exercise length.
	// Unbounded above; >1 means repeated full passes.
	EngagementRatio float64 `json:"engagement_ratio"`

	// AvgSessionSec is cumulative play time per session.
	AvgSessionSec float64 `json:"avg_session_sec"`

	// CompletionRate is average session length over exercise length.
	CompletionRate float64 `json:"completion_rate"`

	Type       BehaviorType `json:"type"`
	Confidence float64      `json:"confidence"`
}

// ExternalTags is the external tagger's classification for a song,
// or the local fallback's when the tagger is unavailable.
type ExternalTags struct {
	Tags         []string   `json:"tags"`
	Energy       EnergyTier `json:"energy"`
	MoodCategory string     `json:"mood_category"`
	Confidence   float64    `json:"confidence"`
	Reasoning    string     `json:"reasoning,omitempty"`

	// Source is "llm" for real tagger output, "fallback" for the local
	// keyword heuristic.
	Source string `json:"source"`
}

// MoodScore pairs a mood category with its accumulated score.
type MoodScore struct {
	Mood  string  `json:"mood"`
	Score float64 `json:"score"`
}

// MoodProfile is the fused, confidence-scored mood classification for a
// song, produced by mood source fusion.
type MoodProfile struct {
	Primary     MoodScore          `json:"primary"`
	Scores      map[string]float64 `json:"scores"`
	EnergyLevel int                `json:"energy_level"`
	Confidence  float64            `json:"confidence"`
	Sources     []string           `json:"sources"`
	Reasoning   string             `json:"reasoning,omitempty"`
}

// Song is a catalog entry. The base fields are read once from the
// catalog source; enrichment fields are attached by the behavioral,
// tagging, and fusion passes.
type Song struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	DurationSec int          `json:"duration_sec"`
	Energy      EnergyTier   `json:"energy"`
	Difficulty  int          `json:"difficulty"`
	Key         KeySignature `json:"key"`

	// Tags is the free-form style/genre tag set. Deduplicated on merge;
	// grows as enrichment runs.
	Tags []string `json:"tags"`

	// Recognition is the externally assessed recognition score in [0,1].
	Recognition float64 `json:"recognition"`

	Engagement *Engagement     `json:"engagement,omitempty"`
	Behavior   *BehaviorSignal `json:"behavior,omitempty"`
	External   *ExternalTags   `json:"external,omitempty"`
	Mood       *MoodProfile    `json:"mood,omitempty"`
}

// HasTag reports whether the song carries the given tag, case-insensitively.
func (s *Song) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// MergeTags adds tags to the song, skipping duplicates case-insensitively.
func (s *Song) MergeTags(tags []string) {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || s.HasTag(t) {
			continue
		}
		s.Tags = append(s.Tags, t)
	}
}

// PrimaryMood returns the fused primary mood, or "" if fusion has not run.
func (s *Song) PrimaryMood() string {
	if s.Mood == nil {
		return ""
	}
	return s.Mood.Primary.Mood
}

// Clone returns a deep copy of the song.
func (s *Song) Clone() Song {
	out := *s
	out.Tags = append([]string(nil), s.Tags...)
	if s.Engagement != nil {
		e := *s.Engagement
		out.Engagement = &e
	}
	if s.Behavior != nil {
		b := *s.Behavior
		out.Behavior = &b
	}
	if s.External != nil {
		x := *s.External
		x.Tags = append([]string(nil), s.External.Tags...)
		out.External = &x
	}
	if s.Mood != nil {
		m := *s.Mood
		m.Scores = make(map[string]float64, len(s.Mood.Scores))
		for k, v := range s.Mood.Scores {
			m.Scores[k] = v
		}
		m.Sources = append([]string(nil), s.Mood.Sources...)
		out.Mood = &m
	}
	return out
}
