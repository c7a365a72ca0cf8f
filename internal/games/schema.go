package games

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/frostline/holidayquest/internal/apperr"
)

// submissionSchemas describes the JSON body accepted by each game's submit
// endpoint.
var submissionSchemas = map[Slug]map[string]any{
	SlugQuiz: {
		"type": "object",
		"properties": map[string]any{
			"answers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "integer", "minimum": 1},
						"selected": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "integer", "minimum": 0},
						},
					},
					"required":             []any{"question", "selected"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"answers"},
		"additionalProperties": false,
	},
	SlugCrossword: {
		"type": "object",
		"properties": map[string]any{
			"entries": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "maxLength": 1},
				},
			},
		},
		"required":             []any{"entries"},
		"additionalProperties": false,
	},
	SlugPuzzle: {
		"type": "object",
		"properties": map[string]any{
			"seed": map[string]any{"type": "integer", "minimum": 0},
			"swaps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "integer", "minimum": 0},
					"minItems": 2,
					"maxItems": 2,
				},
				"maxItems": 5000,
			},
		},
		"required":             []any{"seed", "swaps"},
		"additionalProperties": false,
	},
	SlugCoding: {
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{"type": "string", "minLength": 1, "maxLength": 20000},
		},
		"required":             []any{"source"},
		"additionalProperties": false,
	},
	SlugNetworking: {
		"type": "object",
		"properties": map[string]any{
			"answers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "integer", "minimum": 1},
						"selected": map[string]any{"type": "integer", "minimum": 0},
					},
					"required":             []any{"question", "selected"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"answers"},
		"additionalProperties": false,
	},
	SlugSurprise: {
		"type": "object",
		"properties": map[string]any{
			"opened": map[string]any{"const": true},
			"name":   map[string]any{"type": "string", "maxLength": 80},
		},
		"required": []any{"opened"},
	},
}

var compiled sync.Map // map[Slug]*jsonschema.Schema

// SubmissionSchema returns the JSON schema for a game's submission body.
func SubmissionSchema(slug Slug) (map[string]any, bool) {
	s, ok := submissionSchemas[slug]
	return s, ok
}

// ValidateSubmission checks raw against the game's submission schema and
// returns an *apperr.ErrValidation on mismatch.
func ValidateSubmission(slug Slug, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return apperr.Invalid("body", "malformed JSON")
	}

	schema, err := compiledSchema(slug)
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return &apperr.ErrValidation{Field: "body", Reason: err.Error()}
	}
	return nil
}

func compiledSchema(slug Slug) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(slug); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := submissionSchemas[slug]
	if !ok {
		return nil, apperr.Invalid("game", fmt.Sprintf("unknown game %q", slug))
	}

	// The compiler wants a decoded JSON value, not Go map literals with
	// typed slices, so round-trip through encoding/json.
	b, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", slug, err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", slug, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://submission/%s.json", slug)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", slug, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", slug, err)
	}

	compiled.Store(slug, s)
	return s, nil
}
