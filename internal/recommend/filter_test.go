// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"fmt"
	"testing"

	"github.com/fermata-labs/cadenza/internal/catalog"
)

func TestDurationCapSec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    int
	}{
		{3, 180},
		{5, 180},
		{6, 300},
		{15, 300},
		{16, 420},
		{30, 420},
		{31, 600},
		{120, 600},
		{0, 600}, // unset defaults to the loosest cap
	}
	for _, tt := range tests {
		if got := durationCapSec(tt.minutes); got != tt.want {
			t.Errorf("durationCapSec(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestDifficultyBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		skill          int
		goal           Goal
		style          LearningStyle
		wantLo, wantHi int
	}{
		// The full challenge/relax policy table.
		{5, GoalChallenge, StyleRequiresComfort, 5, 6},
		{5, GoalChallenge, StyleComfortLeastImportant, 6, 8},
		{5, GoalChallenge, StyleAdventurous, 6, 7},
		{5, GoalChallenge, StyleDefault, 6, 6},
		{5, GoalRelax, StyleRequiresComfort, 1, 4},
		{5, GoalRelax, StyleComfortLeastImportant, 3, 5},
		{5, GoalRelax, StyleAdventurous, 1, 5},
		{5, GoalRelax, StyleDefault, 1, 5},
		// Other goals get the symmetric band.
		{5, GoalMaintain, StyleDefault, 4, 6},
		{5, GoalLearn, StyleRequiresComfort, 4, 6},
		// Clamping at the scale edges.
		{1, GoalRelax, StyleRequiresComfort, 1, 1}, // skill-1 would be 0
		{10, GoalChallenge, StyleComfortLeastImportant, 10, 10},
		{9, GoalChallenge, StyleDefault, 10, 10},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("skill=%d goal=%s style=%s", tt.skill, tt.goal, tt.style)
		lo, hi := difficultyBand(tt.skill, tt.goal, tt.style)
		if lo != tt.wantLo || hi != tt.wantHi {
			t.Errorf("%s: band = [%d,%d], want [%d,%d]", name, lo, hi, tt.wantLo, tt.wantHi)
		}
	}
}

// poolCatalog builds a spread of songs across difficulties, durations,
// energies, and tags.
func poolCatalog() []catalog.Song {
	var songs []catalog.Song
	tags := [][]string{{"calm", "acoustic"}, {"upbeat", "dance"}, {"jazz"}, {"pop"}}
	for i := 0; i < 80; i++ {
		songs = append(songs, catalog.Song{
			ID:          fmt.Sprintf("song-%03d", i),
			Title:       fmt.Sprintf("Song %d", i),
			Artist:      fmt.Sprintf("Artist %d", i%10),
			DurationSec: 100 + (i%6)*80, // 100..500
			Difficulty:  1 + i%10,
			Energy:      catalog.EnergyTier(1 + i%5),
			Tags:        tags[i%len(tags)],
			Recognition: float64(i%10) / 10,
		})
	}
	return songs
}

func TestFilterRespectsHardConstraints(t *testing.T) {
	t.Parallel()

	profile := UserProfile{SkillLevel: 3, LearningStyle: StyleRequiresComfort}
	ctx := Context{Goal: GoalRelax, AvailableMinutes: 5, Mood: "peaceful"}

	pool := Filter(poolCatalog(), profile, ctx)
	for _, s := range pool {
		if s.DurationSec > 180 {
			t.Errorf("song %s duration %d exceeds 180s cap", s.ID, s.DurationSec)
		}
		// relax + requires comfort zone: difficulty in [1, skill-1].
		if s.Difficulty > 2 {
			t.Errorf("song %s difficulty %d exceeds relax band max 2", s.ID, s.Difficulty)
		}
	}
}

func TestFilterWidensSmallPools(t *testing.T) {
	t.Parallel()

	// With a jazz-only mood hint the strict pass matches nothing, so
	// widening must bring in every song passing the hard constraints.
	songs := poolCatalog()
	profile := UserProfile{SkillLevel: 5}
	ctx := Context{Goal: GoalMaintain, AvailableMinutes: 60, Mood: "melancholic"}

	pool := Filter(songs, profile, ctx)

	hard := 0
	for _, s := range songs {
		if s.DurationSec <= 600 && s.Difficulty >= 4 && s.Difficulty <= 6 {
			hard++
		}
	}
	if len(pool) != hard {
		t.Errorf("widened pool = %d songs, want all %d passing hard constraints", len(pool), hard)
	}

	ids := make(map[string]bool)
	for _, s := range pool {
		if ids[s.ID] {
			t.Errorf("duplicate song %s in pool", s.ID)
		}
		ids[s.ID] = true
	}
}

func TestFilterKeepsStrictPoolFirst(t *testing.T) {
	t.Parallel()

	songs := []catalog.Song{
		{ID: "strict", DurationSec: 150, Difficulty: 5, Energy: catalog.EnergyLow, Tags: []string{"calm"}},
		{ID: "loose", DurationSec: 150, Difficulty: 5, Energy: catalog.EnergyVeryHigh, Tags: []string{"metal"}},
	}
	profile := UserProfile{SkillLevel: 5}
	ctx := Context{Goal: GoalRelax, AvailableMinutes: 60, Mood: "peaceful"}

	pool := Filter(songs, profile, ctx)
	if len(pool) != 2 {
		t.Fatalf("pool = %d songs, want 2 after widening", len(pool))
	}
	if pool[0].ID != "strict" {
		t.Errorf("strict match should keep its position, got %s first", pool[0].ID)
	}
}

func TestFilterEmptyPoolIsValid(t *testing.T) {
	t.Parallel()

	// Every song is longer than the loosest duration cap: nothing can
	// survive even the widened pass.
	songs := []catalog.Song{
		{ID: "a", DurationSec: 700, Difficulty: 5},
		{ID: "b", DurationSec: 900, Difficulty: 5},
	}
	pool := Filter(songs, UserProfile{SkillLevel: 5}, Context{AvailableMinutes: 120})
	if len(pool) != 0 {
		t.Errorf("pool = %d songs, want 0", len(pool))
	}
}
