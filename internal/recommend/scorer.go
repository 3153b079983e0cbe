// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"math"

	"github.com/fermata-labs/cadenza/internal/catalog"
)

// scoreSong computes all seven sub-scores for one candidate and
// combines them with the given weight vector. Each sub-score is in
// [0,1]; the composite therefore is too.
func scoreSong(s *catalog.Song, profile UserProfile, ctx Context, weights map[string]float64) ScoredSong {
	breakdown := map[string]float64{
		FactorComfortZone: comfortZoneScore(s, profile),
		FactorMood:        moodAlignmentScore(s, profile, ctx),
		FactorTimeOfDay:   timeOfDayScore(s, ctx),
		FactorDuration:    durationScore(s, ctx),
		FactorGoal:        goalScore(s, profile, ctx),
		FactorExploration: explorationScore(s, profile, ctx),
		FactorPopularity:  popularityScore(s, profile),
	}

	var total float64
	for _, f := range Factors {
		total += breakdown[f] * weights[f]
	}

	return ScoredSong{
		Song:      s.Clone(),
		Score:     total,
		Breakdown: breakdown,
		Weights:   weights,
	}
}

// comfortZoneScore rates the difficulty gap between song and learner,
// then applies the learning-style modifier.
func comfortZoneScore(s *catalog.Song, profile UserProfile) float64 {
	gap := s.Difficulty - profile.SkillLevel
	if gap < 0 {
		gap = -gap
	}

	var base float64
	switch gap {
	case 0:
		base = 1.0
	case 1:
		base = 0.7
	case 2:
		base = 0.4
	default:
		base = 0.1
	}

	switch profile.LearningStyle {
	case StyleRequiresComfort:
		if gap == 2 {
			base *= 0.6
		} else if gap >= 3 {
			base *= 0.3
		}
	case StyleComfortLeastImportant:
		if gap > 1 {
			base *= 1.2
		}
	case StyleAdventurous:
		if gap == 0 || gap >= 3 {
			base *= 1.1
		}
	}

	return clampUnit(base)
}

// moodAlignmentScore counts vocabulary matches across catalog tags
// (weight 1.0), external tags (1.2), and a direct primary-mood match
// (1.5), normalizes by match count, then layers in energy and genre
// bonuses. It never returns exactly 0: with no signal at all the
// neutral default applies so one missing signal cannot zero out the
// composite.
func moodAlignmentScore(s *catalog.Song, profile UserProfile, ctx Context) float64 {
	matches := 0
	raw := 0.0

	for _, tag := range s.Tags {
		if matchesMoodKeyword(ctx.Mood, tag) {
			matches++
			raw += 1.0
		}
	}
	if s.External != nil {
		for _, tag := range s.External.Tags {
			if matchesMoodKeyword(ctx.Mood, tag) {
				matches++
				raw += 1.2
			}
		}
	}
	if cat := moodCategoryFor(ctx.Mood); cat != "" && s.PrimaryMood() == cat {
		matches++
		raw += 1.5
	}

	score := 0.0
	signal := matches > 0
	if matches > 0 {
		score = raw / (1.5 * float64(matches))
	}

	if moodEnergyLevel[canonicalMood(ctx.Mood)] == songEnergyLevel(s) {
		score += 0.5
		signal = true
	}

	genreHits := 0
	for _, tag := range s.Tags {
		if profile.prefersGenre(tag) {
			genreHits++
		}
	}
	switch {
	case genreHits >= 2:
		score += 0.4
		signal = true
	case genreHits == 1:
		score += 0.2
		signal = true
	}

	if !signal {
		return 0.2
	}
	if score < 0.4 {
		score = 0.4
	}
	return clampUnit(score)
}

// timeEnergySets maps each time bucket to the energy levels that suit
// it. Unknown buckets fall back to the afternoon set.
var timeEnergySets = map[TimeOfDay]map[int]bool{
	Morning:   {3: true, 4: true, 5: true},
	Afternoon: {3: true, 4: true},
	Evening:   {2: true, 3: true},
	Night:     {1: true, 2: true},
}

// timeOfDayScore rates energy fit for the time bucket, with mood
// overrides: a tired learner always matches low-energy songs and an
// energetic one always matches high-energy songs.
func timeOfDayScore(s *catalog.Song, ctx Context) float64 {
	level := songEnergyLevel(s)
	m := canonicalMood(ctx.Mood)

	if m == "tired" && level <= 2 {
		return 1.0
	}
	if (m == "energetic" || m == "excited") && level >= 4 {
		return 1.0
	}

	set, ok := timeEnergySets[ctx.TimeOfDay]
	if !ok {
		set = timeEnergySets[Afternoon]
	}
	if set[level] {
		return 1.0
	}
	return 0.3
}

// durationScore prefers songs that fill most but not all of the
// available time: a concave band function over the length ratio.
func durationScore(s *catalog.Song, ctx Context) float64 {
	ratio := (float64(s.DurationSec) / 60) / ctx.minutes()
	switch {
	case ratio >= 0.6 && ratio <= 0.8:
		return 1.0
	case ratio >= 0.4 && ratio <= 1.0:
		return 0.8
	case ratio >= 0.2 && ratio <= 1.2:
		return 0.6
	default:
		return 0.2
	}
}

// goalSpec describes what suits one session goal: acceptable energy
// levels, style tags, and a difficulty-versus-skill rule.
type goalSpec struct {
	energies     map[int]bool
	tags         []string
	difficultyOK func(difficulty, skill int) bool
}

var goalTable = map[Goal]goalSpec{
	GoalRelax: {
		energies:     map[int]bool{1: true, 2: true},
		tags:         []string{"calm", "peaceful", "soft", "acoustic", "chill", "gentle"},
		difficultyOK: func(d, s int) bool { return d <= s },
	},
	GoalEnergize: {
		energies:     map[int]bool{4: true, 5: true},
		tags:         []string{"upbeat", "dance", "power", "energetic", "fast"},
		difficultyOK: func(d, s int) bool { return d <= s+1 },
	},
	GoalChallenge: {
		energies:     map[int]bool{3: true, 4: true, 5: true},
		tags:         []string{"technical", "complex", "virtuosic", "challenging", "progressive"},
		difficultyOK: func(d, s int) bool { return d > s },
	},
	GoalMaintain: {
		energies:     map[int]bool{2: true, 3: true, 4: true},
		tags:         []string{"classic", "standard", "popular", "melodic"},
		difficultyOK: func(d, s int) bool { return abs(d-s) <= 1 },
	},
	GoalLearn: {
		energies:     map[int]bool{2: true, 3: true},
		tags:         []string{"instrumental", "melodic", "simple", "etude"},
		difficultyOK: func(d, s int) bool { return d >= s && d <= s+1 },
	},
}

// goalScore averages three indicators from the per-goal table: energy
// match, style-tag match, and the difficulty rule. Unknown goals score
// neutral.
func goalScore(s *catalog.Song, profile UserProfile, ctx Context) float64 {
	spec, ok := goalTable[ctx.Goal]
	if !ok {
		return 0.5
	}

	score := 0.0
	if spec.energies[songEnergyLevel(s)] {
		score++
	}
	if tagsMatchHints(s.Tags, spec.tags) || (s.External != nil && tagsMatchHints(s.External.Tags, spec.tags)) {
		score++
	}
	if spec.difficultyOK(s.Difficulty, profile.SkillLevel) {
		score++
	}
	return score / 3
}

// commonTags is the vocabulary of unremarkable style tags; anything
// outside it counts as uncommon for the exploration bonus.
var commonTags = map[string]bool{
	"pop":       true,
	"rock":      true,
	"classical": true,
	"ballad":    true,
	"folk":      true,
}

// explorationScore rewards unfamiliar territory, but only when the
// learner asked for it.
func explorationScore(s *catalog.Song, profile UserProfile, ctx Context) float64 {
	if !ctx.ExploreNewMoods {
		return 0
	}

	score := 0.0

	familiar := false
	for _, tag := range s.Tags {
		if profile.prefersGenre(tag) {
			familiar = true
			break
		}
	}
	if !familiar && len(s.Tags) > 0 {
		score += 0.5
	}

	for _, tag := range s.Tags {
		if !commonTags[tag] {
			score += 0.3
			break
		}
	}

	gap := abs(s.Difficulty - profile.SkillLevel)
	if gap == 1 || gap == 2 {
		score += 0.2
	}

	return clampUnit(score)
}

// popularityScore blends a log-scaled play-count signal with the
// recognition score, then shapes the result around the learner's
// popularity preference: above 0.5 favors well-known songs, below
// favors niche ones.
func popularityScore(s *catalog.Song, profile UserProfile) float64 {
	playCount := 0
	if s.Engagement != nil {
		playCount = s.Engagement.PlayCount
	}
	playScore := math.Min(1, math.Log10(1+float64(playCount))/3)
	base := 0.3*playScore + 0.7*s.Recognition

	pref := profile.PopularityWeight
	var score float64
	if pref > 0.5 {
		score = base * (0.5 + pref)
	} else {
		score = (1 - base) * (1.5 - pref)
	}
	return clampUnit(score)
}

// songEnergyLevel returns the fused energy when fusion has run, else
// the catalog tier.
func songEnergyLevel(s *catalog.Song) int {
	if s.Mood != nil {
		return s.Mood.EnergyLevel
	}
	return s.Energy.Level()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
