// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/config"
	"github.com/fermata-labs/cadenza/internal/recommend"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	var songs []catalog.Song
	for i := 0; i < 60; i++ {
		songs = append(songs, catalog.Song{
			ID:          fmt.Sprintf("s%02d", i),
			Title:       fmt.Sprintf("Song %d", i),
			Artist:      fmt.Sprintf("Artist %d", i%8),
			DurationSec: 120 + (i%5)*60,
			Difficulty:  1 + i%10,
			Energy:      catalog.EnergyTier(1 + i%5),
			Tags:        []string{"pop", "calm"},
			Recognition: 0.5,
		})
	}
	store := catalog.NewStore(songs)
	engine := recommend.NewEngine(store, nil, zerolog.Nop())
	h := NewHandler(store, engine, recommend.UserProfile{SkillLevel: 5, PopularityWeight: 0.5}, zerolog.Nop())

	cfg := config.ServerConfig{RateLimitReqs: 1000, RateLimitWindow: time.Minute}
	return NewRouter(cfg, h)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestRecommendationsEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	body := `{
		"profile": {"skill_level": 4, "learning_style": "requires comfort zone"},
		"context": {"mood": "peaceful", "time_of_day": "evening", "available_minutes": 20, "goal": "relax"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp.Error)
	}

	raw, _ := json.Marshal(resp.Data)
	var data struct {
		Recommendations []recommend.ScoredSong `json:"recommendations"`
		Count           int                    `json:"count"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid data payload: %v", err)
	}
	if data.Count != len(data.Recommendations) {
		t.Errorf("count %d does not match list length %d", data.Count, len(data.Recommendations))
	}
	if data.Count == 0 {
		t.Fatal("expected recommendations from a broad catalog")
	}
	for _, item := range data.Recommendations {
		// relax + requires comfort zone at skill 4: difficulty <= 3.
		if item.Song.Difficulty > 3 {
			t.Errorf("song %s difficulty %d outside relax band", item.Song.ID, item.Song.Difficulty)
		}
		if len(item.Breakdown) == 0 || len(item.Weights) == 0 {
			t.Errorf("song %s missing explainability payload", item.Song.ID)
		}
	}
}

func TestMergeProfileHonorsExplicitZero(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, recommend.UserProfile{
		SkillLevel:       5,
		Instrument:       "piano",
		PopularityWeight: 0.5,
	}, zerolog.Nop())

	var req recommendRequest
	body := `{"profile": {"skill_level": 9, "popularity_weight": 0}}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}

	got := h.mergeProfile(req.Profile)
	if got.SkillLevel != 9 {
		t.Errorf("skill = %d, want override 9", got.SkillLevel)
	}
	// An explicit zero is a real value, not an absent field.
	if got.PopularityWeight != 0 {
		t.Errorf("popularity weight = %f, want explicit 0", got.PopularityWeight)
	}
	// Fields the request omitted keep the configured default.
	if got.Instrument != "piano" {
		t.Errorf("instrument = %q, want default piano", got.Instrument)
	}

	if got := h.mergeProfile(nil); got.SkillLevel != 5 {
		t.Errorf("nil override skill = %d, want default 5", got.SkillLevel)
	}
}

func TestRecommendationsRejectsBadJSON(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Error == nil || resp.Error.Code != "invalid_body" {
		t.Errorf("unexpected error payload: %+v", resp)
	}
}

func TestSongsPagination(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/songs?limit=10&offset=55", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var data struct {
		Songs  []catalog.Song `json:"songs"`
		Total  int            `json:"total"`
		Offset int            `json:"offset"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid data payload: %v", err)
	}
	if data.Total != 60 {
		t.Errorf("total = %d, want 60", data.Total)
	}
	if len(data.Songs) != 5 {
		t.Errorf("page size = %d, want the 5 remaining songs", len(data.Songs))
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	for _, path := range []string{"/api/v1/health", "/api/v1/health/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cadenza_") {
		t.Error("expected cadenza metrics in exposition output")
	}
}
