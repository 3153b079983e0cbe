// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"strings"

	"github.com/fermata-labs/cadenza/internal/catalog"
)

// minPoolSize is the candidate count below which the filter widens its
// constraints. The scorer needs a pool this size for a meaningful,
// diverse top slice.
const minPoolSize = 50

// constraints is the coarse pre-scoring filter derived from profile
// and context.
type constraints struct {
	maxDurationSec int
	minDifficulty  int
	maxDifficulty  int

	// styleHints and energies apply only in the strict pass; the
	// widened pass drops them. Empty sets mean no constraint.
	styleHints []string
	energies   map[int]bool
}

// durationCapSec is a monotonic step function from available minutes
// to a hard duration ceiling.
func durationCapSec(availableMinutes int) int {
	switch {
	case availableMinutes <= 0:
		return 600
	case availableMinutes <= 5:
		return 180
	case availableMinutes <= 15:
		return 300
	case availableMinutes <= 30:
		return 420
	default:
		return 600
	}
}

// difficultyBand derives [min, max] difficulty from the goal and the
// learning-style policy, clamped to [1,10].
func difficultyBand(skill int, goal Goal, style LearningStyle) (int, int) {
	var lo, hi int
	switch goal {
	case GoalChallenge:
		switch style {
		case StyleRequiresComfort:
			lo, hi = skill, skill+1
		case StyleComfortLeastImportant:
			lo, hi = skill+1, skill+3
		case StyleAdventurous:
			lo, hi = skill+1, skill+2
		default:
			lo, hi = skill+1, skill+1
		}
	case GoalRelax:
		switch style {
		case StyleRequiresComfort:
			lo, hi = 1, skill-1
		case StyleComfortLeastImportant:
			lo, hi = skill-2, skill
		default:
			lo, hi = 1, skill
		}
	default:
		lo, hi = skill-1, skill+1
	}

	if lo < 1 {
		lo = 1
	}
	if lo > 10 {
		lo = 10
	}
	if hi > 10 {
		hi = 10
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// buildConstraints assembles the strict filter constraints.
func buildConstraints(profile UserProfile, ctx Context) constraints {
	lo, hi := difficultyBand(profile.SkillLevel, ctx.Goal, profile.LearningStyle)
	cons := constraints{
		maxDurationSec: durationCapSec(ctx.AvailableMinutes),
		minDifficulty:  lo,
		maxDifficulty:  hi,
		styleHints:     styleHintsFor(ctx.Mood),
	}
	if spec, ok := goalTable[ctx.Goal]; ok {
		cons.energies = spec.energies
	}
	return cons
}

// matches applies the constraints to one song. The strict flag gates
// the soft constraints (style hints, energy); duration and difficulty
// always apply.
func (c constraints) matches(s *catalog.Song, strict bool) bool {
	if s.DurationSec > c.maxDurationSec {
		return false
	}
	if s.Difficulty < c.minDifficulty || s.Difficulty > c.maxDifficulty {
		return false
	}
	if !strict {
		return true
	}
	if len(c.energies) > 0 && !c.energies[s.Energy.Level()] {
		return false
	}
	if len(c.styleHints) > 0 && !hasAnyHint(s, c.styleHints) {
		return false
	}
	return true
}

func hasAnyHint(s *catalog.Song, hints []string) bool {
	if tagsMatchHints(s.Tags, hints) {
		return true
	}
	// External tags count too; enrichment may know styles the catalog
	// does not.
	return s.External != nil && tagsMatchHints(s.External.Tags, hints)
}

func tagsMatchHints(tags, hints []string) bool {
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		for _, h := range hints {
			if strings.Contains(tag, h) || strings.Contains(h, tag) {
				return true
			}
		}
	}
	return false
}

// Filter narrows the song list to a candidate pool. If the strict pool
// is too small it unions in a widened pass with style and energy
// constraints dropped; the stricter pool's songs keep their position.
// An empty result is a valid outcome, not an error.
func Filter(songs []catalog.Song, profile UserProfile, ctx Context) []catalog.Song {
	cons := buildConstraints(profile, ctx)

	pool := make([]catalog.Song, 0, len(songs))
	seen := make(map[string]bool, len(songs))
	for i := range songs {
		if cons.matches(&songs[i], true) {
			pool = append(pool, songs[i])
			seen[songs[i].ID] = true
		}
	}

	if len(pool) >= minPoolSize {
		return pool
	}

	for i := range songs {
		if seen[songs[i].ID] {
			continue
		}
		if cons.matches(&songs[i], false) {
			pool = append(pool, songs[i])
			seen[songs[i].ID] = true
		}
	}
	return pool
}
