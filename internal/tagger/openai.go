// Cadenza - Contextual Song Recommendations for Music Learners
// Copyright 2026 Fermata Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fermata-labs/cadenza

package tagger

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"golang.org/x/time/rate"

	json "github.com/goccy/go-json"

	"github.com/fermata-labs/cadenza/internal/catalog"
	"github.com/fermata-labs/cadenza/internal/config"
)

const classifyInstructions = `You classify songs for a music learning app.
Given a song's metadata, return style tags, an energy tier, and the single
mood category that best fits. Use "balanced" only when no mood clearly
dominates. Base the classification on what is commonly known about the
song and artist; when unsure, say so with a lower confidence.`

var classificationSchema = generateSchema[classification]()

// songPayload is the request body sent to the classifier.
type songPayload struct {
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	DurationSec int      `json:"duration_sec,omitempty"`
	Difficulty  int      `json:"difficulty,omitempty"`
	Tags        []string `json:"existing_tags,omitempty"`
}

// OpenAITagger classifies songs through the OpenAI Responses API with a
// strict output schema. Calls are rate limited; callers are expected to
// wrap it with the circuit breaker.
type OpenAITagger struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAITagger builds a tagger for the given client and settings.
func NewOpenAITagger(client *openai.Client, cfg config.TaggerConfig) *OpenAITagger {
	return &OpenAITagger{
		client:  client,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Tag classifies one song. Blocks on the rate limiter first, so a
// canceled context returns before any network call.
func (t *OpenAITagger) Tag(ctx context.Context, song catalog.Song) (catalog.ExternalTags, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return catalog.ExternalTags{}, err
	}

	payload, err := json.Marshal(songPayload{
		Title:       song.Title,
		Artist:      song.Artist,
		DurationSec: song.DurationSec,
		Difficulty:  song.Difficulty,
		Tags:        song.Tags,
	})
	if err != nil {
		return catalog.ExternalTags{}, fmt.Errorf("tagger: marshal payload: %w", err)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SongClassification",
			Schema:      classificationSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Song mood classification JSON"),
			Type:        "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           t.model,
		MaxOutputTokens: openai.Int(500),
		Instructions:    openai.String(classifyInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(string(payload), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := t.client.Responses.New(ctx, params)
	if err != nil {
		return catalog.ExternalTags{}, fmt.Errorf("tagger: classify %q: %w", song.ID, err)
	}

	var out classification
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return catalog.ExternalTags{}, fmt.Errorf("tagger: decode response for %q: %w", song.ID, err)
	}
	return out.toExternalTags()
}
