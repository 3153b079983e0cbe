// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Loader reads a raw catalog CSV and produces normalized songs.
// Malformed rows are logged and skipped, never fatal.
type Loader struct {
	normalizer *Normalizer
	logger     zerolog.Logger
}

// NewLoader creates a Loader.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		normalizer: NewNormalizer(),
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// LoadFile reads and normalizes the catalog CSV at path.
func (l *Loader) LoadFile(path string) ([]Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load reads and normalizes catalog records from r. The first row is
// the header; header casing is irrelevant.
func (l *Loader) Load(r io.Reader) ([]Song, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var songs []Song
	skipped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.logger.Warn().Err(err).Int("line", line).Msg("skipping malformed catalog row")
			skipped++
			continue
		}

		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				raw[name] = record[i]
			}
		}

		song, err := l.normalizer.Normalize(raw)
		if err != nil {
			l.logger.Warn().Err(err).Int("line", line).Msg("skipping unidentifiable catalog row")
			skipped++
			continue
		}
		songs = append(songs, song)
	}

	l.logger.Info().
		Int("songs", len(songs)).
		Int("skipped", skipped).
		Msg("catalog loaded")

	return songs, nil
}
