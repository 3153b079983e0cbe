// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

// Package recommend implements the contextual recommendation engine:
// candidate filtering, multi-factor scoring with context-dependent
// weights, and orchestration of diversity reranking.
package recommend

import (
	"strings"

	"github.com/fermata-labs/cadenza/internal/catalog"
)

// LearningStyle is the per-learner policy governing how strongly
// recommendations should stay within the learner's comfort zone.
type LearningStyle string

const (
	// StyleDefault applies no comfort-zone policy.
	StyleDefault LearningStyle = ""

	// StyleRequiresComfort keeps difficulty close to the skill level.
	StyleRequiresComfort LearningStyle = "requires_comfort_zone"

	// StyleComfortLeastImportant actively pushes beyond the comfort zone.
	StyleComfortLeastImportant LearningStyle = "comfort_least_important"

	// StyleAdventurous prefers the comfort zone but rewards extremes.
	StyleAdventurous LearningStyle = "prefers_comfort_adventurous"
)

// ParseLearningStyle maps free-form style strings onto the known
// policies. Unknown values fall back to the default policy.
func ParseLearningStyle(s string) LearningStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "requires_comfort_zone", "requires comfort zone":
		return StyleRequiresComfort
	case "comfort_least_important", "comfort zone least important":
		return StyleComfortLeastImportant
	case "prefers_comfort_adventurous", "prefers comfort zone but adventurous":
		return StyleAdventurous
	default:
		return StyleDefault
	}
}

// Goal is the learner's stated objective for the session.
type Goal string

const (
	GoalRelax     Goal = "relax"
	GoalEnergize  Goal = "energize"
	GoalChallenge Goal = "challenge"
	GoalMaintain  Goal = "maintain"
	GoalLearn     Goal = "learn"
)

// TimeOfDay is the request's coarse time bucket.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// UserProfile describes the learner. Created from static configuration
// at startup; requests may override individual fields.
type UserProfile struct {
	// SkillLevel is 1-10, clamped at the engine boundary.
	SkillLevel int `json:"skill_level"`

	Instrument string `json:"instrument"`

	// GenrePreferences is an unordered set of preferred genres/tags.
	GenrePreferences []string `json:"genre_preferences"`

	LearningStyle LearningStyle `json:"learning_style"`

	// PopularityWeight in [0,1]; above 0.5 favors well-known songs.
	PopularityWeight float64 `json:"popularity_weight"`
}

// Clamped returns a copy with out-of-range fields pulled into their
// valid ranges. Best-effort recommendation, not validation failure.
func (p UserProfile) Clamped() UserProfile {
	if p.SkillLevel < 1 {
		p.SkillLevel = 1
	}
	if p.SkillLevel > 10 {
		p.SkillLevel = 10
	}
	if p.PopularityWeight < 0 {
		p.PopularityWeight = 0
	}
	if p.PopularityWeight > 1 {
		p.PopularityWeight = 1
	}
	return p
}

// prefersGenre reports whether tag matches any genre preference,
// case-insensitively.
func (p UserProfile) prefersGenre(tag string) bool {
	for _, g := range p.GenrePreferences {
		if strings.EqualFold(g, tag) {
			return true
		}
	}
	return false
}

// Context is the ephemeral situational input, supplied per request and
// never persisted.
type Context struct {
	// Mood is free text, mapped through the mood vocabulary with an
	// explicit default for unknown values.
	Mood string `json:"mood"`

	TimeOfDay TimeOfDay `json:"time_of_day"`

	// AvailableMinutes of practice time. Non-positive values default.
	AvailableMinutes int `json:"available_minutes"`

	Goal Goal `json:"goal"`

	// ExploreNewMoods enables the exploration bonus sub-score.
	ExploreNewMoods bool `json:"explore_new_moods"`
}

// minutes returns the available time with a sane default.
func (c Context) minutes() float64 {
	if c.AvailableMinutes <= 0 {
		return 30
	}
	return float64(c.AvailableMinutes)
}

// Sub-score names, used as keys in breakdowns and weight vectors.
const (
	FactorComfortZone = "comfort_zone"
	FactorMood        = "mood"
	FactorTimeOfDay   = "time_of_day"
	FactorDuration    = "duration"
	FactorGoal        = "goal"
	FactorExploration = "exploration"
	FactorPopularity  = "popularity"
)

// Factors lists every sub-score name in weight-vector order.
var Factors = []string{
	FactorComfortZone,
	FactorMood,
	FactorTimeOfDay,
	FactorDuration,
	FactorGoal,
	FactorExploration,
	FactorPopularity,
}

// ScoredSong is one ranked result: the song, its composite score, and
// the per-factor breakdown plus the weight vector used, for
// explainability. Computed fresh per request, never cached.
type ScoredSong struct {
	Song      catalog.Song       `json:"song"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
	Weights   map[string]float64 `json:"weights"`
}

// Reranker reorders a scored list to improve diversity among the top
// results. Implementations must be stable and must never duplicate or
// exceed k results.
type Reranker interface {
	Name() string
	Rerank(items []ScoredSong, k int) []ScoredSong
}
