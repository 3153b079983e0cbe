// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package catalog

import (
	"strings"
	"sync"
	"testing"
)

func testSongs() []Song {
	return []Song{
		{ID: "a", Title: "Alpha", Artist: "One", Tags: []string{"pop"}},
		{ID: "b", Title: "Beta", Artist: "Two", Tags: []string{"rock"}},
		{ID: "c", Title: "Gamma", Artist: "Three"},
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := NewStore(testSongs())
	snap := store.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 songs, got %d", len(snap))
	}

	// Mutating the snapshot must not leak into the store.
	snap[0].Tags = append(snap[0].Tags, "mutated")
	snap[0].Title = "changed"

	got, ok := store.Get("a")
	if !ok {
		t.Fatal("song a missing")
	}
	if got.Title != "Alpha" || len(got.Tags) != 1 {
		t.Errorf("store leaked snapshot mutation: %+v", got)
	}
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	store := NewStore(testSongs())

	if ok := store.Update("b", func(s *Song) {
		s.Behavior = &BehaviorSignal{Type: BehaviorComfortZone, Confidence: 0.8}
	}); !ok {
		t.Fatal("expected update of existing song to succeed")
	}
	if ok := store.Update("zz", func(s *Song) {}); ok {
		t.Error("expected update of missing song to fail")
	}

	got, _ := store.Get("b")
	if got.Behavior == nil || got.Behavior.Type != BehaviorComfortZone {
		t.Errorf("expected behavior signal attached, got %+v", got.Behavior)
	}
}

func TestStoreApplyVisitsAll(t *testing.T) {
	t.Parallel()

	store := NewStore(testSongs())
	store.Apply(func(s *Song) {
		s.MergeTags([]string{"enriched"})
	})

	for _, id := range []string{"a", "b", "c"} {
		song, _ := store.Get(id)
		if !song.HasTag("enriched") {
			t.Errorf("song %s missing enrichment tag", id)
		}
	}
}

func TestStoreDuplicateIDsKeepLast(t *testing.T) {
	t.Parallel()

	store := NewStore([]Song{
		{ID: "dup", Title: "First"},
		{ID: "dup", Title: "Second"},
	})
	if store.Len() != 1 {
		t.Fatalf("expected 1 song, got %d", store.Len())
	}
	got, _ := store.Get("dup")
	if got.Title != "Second" {
		t.Errorf("expected last record to win, got %q", got.Title)
	}
}

func TestStoreConcurrentReadersAndWriter(t *testing.T) {
	t.Parallel()

	store := NewStore(testSongs())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Snapshot()
				_, _ = store.Get("a")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			store.Apply(func(s *Song) { s.Recognition = 0.5 })
		}
	}()
	wg.Wait()
}

func TestLoaderSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	csvData := strings.Join([]string{
		`ID,Title,Artist,Duration,Difficulty,Tags`,
		`s1,Song One,Artist A,200,3,"[""pop"", ""rock""]"`,
		`,,,,,`, // no identity: skipped
		`s3,Song Three,Artist C,180,bogus,jazz`,
	}, "\n")

	loader := NewLoader(testLogger())
	songs, err := loader.Load(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	if songs[0].ID != "s1" || len(songs[0].Tags) != 2 {
		t.Errorf("unexpected first song: %+v", songs[0])
	}
	// Malformed difficulty falls back to the default, not an error.
	if songs[1].Difficulty != 5 {
		t.Errorf("expected default difficulty for malformed value, got %d", songs[1].Difficulty)
	}
}
