// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"math"
	"testing"
)

func weightSum(w map[string]float64) float64 {
	sum := 0.0
	for _, f := range Factors {
		sum += w[f]
	}
	return sum
}

func TestBaseWeightsSumToOne(t *testing.T) {
	t.Parallel()

	if got := weightSum(baseWeights()); math.Abs(got-1) > 1e-9 {
		t.Errorf("base weights sum = %v, want 1.0", got)
	}
}

func TestWeightsAlwaysSumToOne(t *testing.T) {
	t.Parallel()

	// Every combination of adjustment triggers must renormalize to 1.0.
	styles := []LearningStyle{StyleDefault, StyleRequiresComfort, StyleComfortLeastImportant, StyleAdventurous}
	prefs := []float64{0.1, 0.5, 0.9}
	goals := []Goal{GoalRelax, GoalChallenge, GoalMaintain, ""}
	minutes := []int{5, 45}

	for _, style := range styles {
		for _, pref := range prefs {
			for _, goal := range goals {
				for _, m := range minutes {
					for _, explore := range []bool{false, true} {
						p := UserProfile{SkillLevel: 5, LearningStyle: style, PopularityWeight: pref}
						c := Context{Goal: goal, AvailableMinutes: m, ExploreNewMoods: explore}
						w := Weights(p, c)
						if sum := weightSum(w); math.Abs(sum-1) > 1e-9 {
							t.Errorf("weights sum = %v for %+v %+v, want 1.0", sum, p, c)
						}
						for _, f := range Factors {
							if w[f] < 0 {
								t.Errorf("negative weight %s = %v for %+v %+v", f, w[f], p, c)
							}
						}
					}
				}
			}
		}
	}
}

func TestWeightAdjustmentDirections(t *testing.T) {
	t.Parallel()

	neutral := Weights(UserProfile{SkillLevel: 5, PopularityWeight: 0.5}, Context{AvailableMinutes: 30})

	tests := []struct {
		name    string
		profile UserProfile
		ctx     Context
		factor  string
		up      bool
	}{
		{
			name:    "popularity seeker boosts popularity",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.8},
			ctx:     Context{AvailableMinutes: 30},
			factor:  FactorPopularity,
			up:      true,
		},
		{
			name:    "niche seeker lowers popularity",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.2},
			ctx:     Context{AvailableMinutes: 30},
			factor:  FactorPopularity,
			up:      false,
		},
		{
			name:    "comfort-bound style boosts comfort zone",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.5, LearningStyle: StyleRequiresComfort},
			ctx:     Context{AvailableMinutes: 30},
			factor:  FactorComfortZone,
			up:      true,
		},
		{
			name:    "explore flag boosts exploration",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.5},
			ctx:     Context{AvailableMinutes: 30, ExploreNewMoods: true},
			factor:  FactorExploration,
			up:      true,
		},
		{
			name:    "short session boosts duration",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.5},
			ctx:     Context{AvailableMinutes: 7},
			factor:  FactorDuration,
			up:      true,
		},
		{
			name:    "challenge goal boosts goal factor",
			profile: UserProfile{SkillLevel: 5, PopularityWeight: 0.5},
			ctx:     Context{AvailableMinutes: 30, Goal: GoalChallenge},
			factor:  FactorGoal,
			up:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := Weights(tt.profile, tt.ctx)
			if tt.up && w[tt.factor] <= neutral[tt.factor] {
				t.Errorf("%s = %v, want > neutral %v", tt.factor, w[tt.factor], neutral[tt.factor])
			}
			if !tt.up && w[tt.factor] >= neutral[tt.factor] {
				t.Errorf("%s = %v, want < neutral %v", tt.factor, w[tt.factor], neutral[tt.factor])
			}
		})
	}
}

func TestWeightsComposeAcrossRules(t *testing.T) {
	t.Parallel()

	// Short session + challenge goal + popularity seeker all at once
	// must still produce a valid, fully adjusted vector.
	p := UserProfile{SkillLevel: 4, PopularityWeight: 0.9}
	c := Context{AvailableMinutes: 5, Goal: GoalChallenge}
	w := Weights(p, c)

	if sum := weightSum(w); math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights sum = %v, want 1.0", sum)
	}
	neutral := Weights(UserProfile{SkillLevel: 4, PopularityWeight: 0.5}, Context{AvailableMinutes: 30})
	if w[FactorDuration] <= neutral[FactorDuration] {
		t.Errorf("duration weight not boosted under combined rules")
	}
	if w[FactorGoal] <= neutral[FactorGoal] {
		t.Errorf("goal weight not boosted under combined rules")
	}
}
