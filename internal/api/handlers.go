// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/recommend"
)

const (
	defaultSongsLimit = 50
	maxSongsLimit     = 500
)

// Handler serves the API endpoints.
type Handler struct {
	store          *catalog.Store
	engine         *recommend.Engine
	defaultProfile recommend.UserProfile
	logger         zerolog.Logger
}

// NewHandler builds the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(store *catalog.Store, engine *recommend.Engine, defaultProfile recommend.UserProfile, logger zerolog.Logger) *Handler {
	return &Handler{
		store:          store,
		engine:         engine,
		defaultProfile: defaultProfile,
		logger:         logger.With().Str("component", "api").Logger(),
	}
}

// recommendRequest is the POST /recommendations body. The profile is
// optional; omitted fields inherit the configured default profile.
type recommendRequest struct {
	Profile *profileOverride  `json:"profile,omitempty"`
	Context recommend.Context `json:"context"`
}

// profileOverride uses pointer fields so an absent field and an
// explicit zero (e.g. popularity_weight: 0 for max-niche) stay
// distinguishable.
type profileOverride struct {
	SkillLevel       *int     `json:"skill_level"`
	Instrument       *string  `json:"instrument"`
	GenrePreferences []string `json:"genre_preferences"`
	LearningStyle    *string  `json:"learning_style"`
	PopularityWeight *float64 `json:"popularity_weight"`
}

type recommendResponse struct {
	Recommendations []recommend.ScoredSong `json:"recommendations"`
	Count           int                    `json:"count"`
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	profile := h.mergeProfile(req.Profile)
	results := h.engine.Recommend(profile, req.Context)

	writeJSON(w, r, http.StatusOK, recommendResponse{
		Recommendations: results,
		Count:           len(results),
	})
}

// mergeProfile overlays a request profile onto the configured default.
// Absent fields inherit the default; explicit values, zero included,
// win. Out-of-range values are left for the engine to clamp.
func (h *Handler) mergeProfile(override *profileOverride) recommend.UserProfile {
	profile := h.defaultProfile
	if override == nil {
		return profile
	}
	if override.SkillLevel != nil {
		profile.SkillLevel = *override.SkillLevel
	}
	if override.Instrument != nil {
		profile.Instrument = *override.Instrument
	}
	if override.GenrePreferences != nil {
		profile.GenrePreferences = override.GenrePreferences
	}
	if override.LearningStyle != nil {
		profile.LearningStyle = recommend.ParseLearningStyle(*override.LearningStyle)
	}
	if override.PopularityWeight != nil {
		profile.PopularityWeight = *override.PopularityWeight
	}
	return profile
}

type songsResponse struct {
	Songs  []catalog.Song `json:"songs"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// Songs handles GET /api/v1/songs with limit/offset pagination over
// the enriched catalog snapshot.
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSongsLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 {
		limit = defaultSongsLimit
	}
	if limit > maxSongsLimit {
		limit = maxSongsLimit
	}
	if offset < 0 {
		offset = 0
	}

	snapshot := h.store.Snapshot()
	total := len(snapshot)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	writeJSON(w, r, http.StatusOK, songsResponse{
		Songs:  snapshot[offset:end],
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"songs":  h.store.Len(),
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
