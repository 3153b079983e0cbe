// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

// baseWeights returns the starting weight vector. It sums to 1.0.
func baseWeights() map[string]float64 {
	return map[string]float64{
		FactorComfortZone: 0.20,
		FactorMood:        0.25,
		FactorTimeOfDay:   0.15,
		FactorDuration:    0.15,
		FactorGoal:        0.05,
		FactorExploration: 0.05,
		FactorPopularity:  0.15,
	}
}

// adjustmentRule is one pure weight adjustment: a predicate over the
// profile and context plus the additive deltas it applies. Rules run
// in declaration order so simultaneous conditions compose predictably
// instead of needing a combinatorial table.
type adjustmentRule struct {
	name    string
	applies func(p UserProfile, c Context) bool
	deltas  map[string]float64
}

var adjustmentRules = []adjustmentRule{
	{
		name:    "popularity_seeking",
		applies: func(p UserProfile, _ Context) bool { return p.PopularityWeight > 0.6 },
		deltas: map[string]float64{
			FactorPopularity:  +0.10,
			FactorComfortZone: -0.05,
			FactorMood:        -0.05,
		},
	},
	{
		name:    "niche_seeking",
		applies: func(p UserProfile, _ Context) bool { return p.PopularityWeight < 0.4 },
		deltas: map[string]float64{
			FactorPopularity:  -0.05,
			FactorComfortZone: +0.05,
		},
	},
	{
		name:    "requires_comfort_zone",
		applies: func(p UserProfile, _ Context) bool { return p.LearningStyle == StyleRequiresComfort },
		deltas: map[string]float64{
			FactorComfortZone: +0.10,
			FactorExploration: -0.10,
		},
	},
	{
		name:    "comfort_least_important",
		applies: func(p UserProfile, _ Context) bool { return p.LearningStyle == StyleComfortLeastImportant },
		deltas: map[string]float64{
			FactorComfortZone: -0.10,
			FactorExploration: +0.10,
		},
	},
	{
		name:    "adventurous",
		applies: func(p UserProfile, _ Context) bool { return p.LearningStyle == StyleAdventurous },
		deltas: map[string]float64{
			FactorComfortZone: +0.05,
			FactorExploration: +0.05,
			FactorMood:        -0.10,
		},
	},
	{
		name:    "explore_flag",
		applies: func(_ UserProfile, c Context) bool { return c.ExploreNewMoods },
		deltas: map[string]float64{
			FactorExploration: +0.10,
			FactorComfortZone: -0.05,
			FactorMood:        -0.05,
		},
	},
	{
		name:    "short_session",
		applies: func(_ UserProfile, c Context) bool { return c.AvailableMinutes > 0 && c.AvailableMinutes < 10 },
		deltas: map[string]float64{
			FactorDuration:  +0.15,
			FactorMood:      -0.10,
			FactorTimeOfDay: -0.05,
		},
	},
	{
		name:    "challenge_goal",
		applies: func(_ UserProfile, c Context) bool { return c.Goal == GoalChallenge },
		deltas: map[string]float64{
			FactorGoal:        +0.10,
			FactorComfortZone: -0.10,
		},
	},
}

// Weights computes the context-adjusted weight vector: base weights,
// the adjustment rules in order, clamp at zero, then renormalize so
// the vector always sums to 1.0.
func Weights(profile UserProfile, ctx Context) map[string]float64 {
	w := baseWeights()

	for _, rule := range adjustmentRules {
		if !rule.applies(profile, ctx) {
			continue
		}
		for factor, delta := range rule.deltas {
			w[factor] += delta
		}
	}

	sum := 0.0
	for _, f := range Factors {
		if w[f] < 0 {
			w[f] = 0
		}
		sum += w[f]
	}
	if sum == 0 {
		return baseWeights()
	}
	for _, f := range Factors {
		w[f] /= sum
	}
	return w
}
