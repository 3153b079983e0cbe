// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package recommend

import (
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/catalog"
)

func testEngine(songs []catalog.Song) *Engine {
	return NewEngine(catalog.NewStore(songs), nil, zerolog.Nop())
}

func TestRecommendIsDeterministic(t *testing.T) {
	t.Parallel()

	engine := testEngine(poolCatalog())
	profile := UserProfile{SkillLevel: 5, PopularityWeight: 0.5, GenrePreferences: []string{"pop"}}
	ctx := Context{Mood: "happy", TimeOfDay: Afternoon, AvailableMinutes: 20, Goal: GoalMaintain}

	first := engine.Recommend(profile, ctx)
	second := engine.Recommend(profile, ctx)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different outputs")
	}
}

func TestRecommendReturnsAtMostTopK(t *testing.T) {
	t.Parallel()

	engine := testEngine(poolCatalog())
	got := engine.Recommend(
		UserProfile{SkillLevel: 5, PopularityWeight: 0.5},
		Context{Mood: "happy", TimeOfDay: Afternoon, AvailableMinutes: 60},
	)
	if len(got) > DefaultTopK {
		t.Errorf("returned %d songs, want at most %d", len(got), DefaultTopK)
	}
	if len(got) == 0 {
		t.Fatal("expected a non-empty result from a broad catalog")
	}

	// Ranked descending with full explainability attached.
	for i, item := range got {
		if i > 0 && got[i-1].Score < item.Score {
			t.Errorf("results out of order at %d: %v < %v", i, got[i-1].Score, item.Score)
		}
		if len(item.Breakdown) != len(Factors) {
			t.Errorf("song %s breakdown has %d factors, want %d", item.Song.ID, len(item.Breakdown), len(Factors))
		}
		sum := 0.0
		for _, f := range Factors {
			sum += item.Weights[f]
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("song %s weight vector sums to %v, want 1.0", item.Song.ID, sum)
		}
	}
}

func TestRecommendEmptyPoolYieldsEmptyList(t *testing.T) {
	t.Parallel()

	// Nothing survives even the widened pass.
	engine := testEngine([]catalog.Song{
		{ID: "a", DurationSec: 900, Difficulty: 5},
	})
	got := engine.Recommend(UserProfile{SkillLevel: 5}, Context{AvailableMinutes: 60})
	if got == nil || len(got) != 0 {
		t.Errorf("want an empty (non-nil) list, got %v", got)
	}
}

func TestRecommendComfortBoundRelaxStaysBelowSkill(t *testing.T) {
	t.Parallel()

	engine := testEngine(poolCatalog())
	profile := UserProfile{SkillLevel: 3, LearningStyle: StyleRequiresComfort, PopularityWeight: 0.5}
	ctx := Context{Mood: "peaceful", TimeOfDay: Evening, AvailableMinutes: 30, Goal: GoalRelax}

	got := engine.Recommend(profile, ctx)
	if len(got) == 0 {
		t.Fatal("expected recommendations")
	}
	for _, item := range got {
		if item.Song.Difficulty > 2 {
			t.Errorf("song %s difficulty %d exceeds skill-1", item.Song.ID, item.Song.Difficulty)
		}
	}
}

func TestRecommendClampsWildProfiles(t *testing.T) {
	t.Parallel()

	engine := testEngine(poolCatalog())
	got := engine.Recommend(
		UserProfile{SkillLevel: 42, PopularityWeight: -3},
		Context{AvailableMinutes: 60},
	)
	// Skill clamps to 10, so the default band is [9,10]; the widened
	// pool still yields results rather than erroring.
	for _, item := range got {
		if item.Song.Difficulty < 9 {
			t.Errorf("song %s difficulty %d outside clamped band", item.Song.ID, item.Song.Difficulty)
		}
	}
}

func TestDedupeKeepHigher(t *testing.T) {
	t.Parallel()

	items := []ScoredSong{
		{Song: catalog.Song{ID: "x"}, Score: 0.4},
		{Song: catalog.Song{ID: "y"}, Score: 0.9},
		{Song: catalog.Song{ID: "x"}, Score: 0.7},
	}
	got := dedupeKeepHigher(items)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].Song.ID != "x" || got[0].Score != 0.7 {
		t.Errorf("duplicate id should keep the higher score, got %+v", got[0])
	}
}
