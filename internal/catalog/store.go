// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package catalog

import (
	"sort"
	"sync"
)

// Store is the in-memory catalog repository. Reads take a shared lock
// and return copies; enrichment passes are exclusive writers, so a
// request never observes a half-written song.
type Store struct {
	mu    sync.RWMutex
	songs map[string]*Song
	order []string
}

// NewStore creates a store seeded with the given songs. Duplicate IDs
// keep the last record.
func NewStore(songs []Song) *Store {
	s := &Store{
		songs: make(map[string]*Song, len(songs)),
		order: make([]string, 0, len(songs)),
	}
	for i := range songs {
		song := songs[i]
		if _, exists := s.songs[song.ID]; !exists {
			s.order = append(s.order, song.ID)
		}
		s.songs[song.ID] = &song
	}
	return s
}

// Len returns the number of songs in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.songs)
}

// Get returns a copy of the song with the given id.
func (s *Store) Get(id string) (Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	song, ok := s.songs[id]
	if !ok {
		return Song{}, false
	}
	return song.Clone(), true
}

// Snapshot returns copies of all songs in load order.
func (s *Store) Snapshot() []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Song, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.songs[id].Clone())
	}
	return out
}

// IDs returns all song ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.songs))
	for id := range s.songs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Update applies fn to the song with the given id under the write lock.
// Returns false if the song does not exist.
func (s *Store) Update(id string, fn func(*Song)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.songs[id]
	if !ok {
		return false
	}
	fn(song)
	return true
}

// Apply runs fn over every song under the write lock. Enrichment passes
// use this so they behave as exclusive writers against readers.
func (s *Store) Apply(fn func(*Song)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		fn(s.songs[id])
	}
}
