// Package reply parses and validates the oracle's textual payloads.
//
// Validation is a two-stage pipeline: an untyped parse that fails with
// ErrMalformed, then shape validation that fails with a SchemaViolationError
// carrying the violated fields. The only tolerated repair is coercing an
// out-of-vocabulary creative idea type to "other" before re-validation.
package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/beatreach/beatreach/internal/prefs"
	"github.com/beatreach/beatreach/internal/types"
	"github.com/beatreach/beatreach/internal/validation"
)

// Bundle cardinality bounds.
const (
	MinInfluencers   = 5
	MaxInfluencers   = 7
	MinCreativeIdeas = 3
)

// ErrMalformed indicates the oracle payload could not be parsed as JSON.
var ErrMalformed = errors.New("oracle output is not valid JSON")

// SchemaViolationError indicates the payload parsed but failed shape
// validation even after repair.
type SchemaViolationError struct {
	Violations []validation.ValidationError
}

func (e *SchemaViolationError) Error() string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fmt.Sprintf("oracle output violates response schema: %s", strings.Join(fields, ", "))
}

// Gathering is a validated requirements-gathering reply.
type Gathering struct {
	Message string
	Updates types.PreferenceUpdate
}

// envelope is the untyped outer reply shape shared by both oracle prompts.
type envelope struct {
	Message            *string                `json:"message"`
	UpdatedPreferences types.PreferenceUpdate `json:"updatedPreferences"`
	Complete           *bool                  `json:"complete"`
	Response           json.RawMessage        `json:"response"`
}

// ParseGathering validates a gathering-phase reply.
func ParseGathering(raw string) (*Gathering, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err.Error())
	}

	var c validation.Collector
	if env.Message == nil || strings.TrimSpace(*env.Message) == "" {
		c.Addf("message", "is required")
	}
	for _, v := range prefs.ValidateUpdate(env.UpdatedPreferences) {
		verr := v
		c.Add(&verr)
	}
	if c.HasErrors() {
		return nil, &SchemaViolationError{Violations: c.Errors()}
	}

	return &Gathering{
		Message: *env.Message,
		Updates: env.UpdatedPreferences,
	}, nil
}

// Untyped bundle wire shapes. Numbers stay float64 until validated.
type bundleWire struct {
	Influencers   []influencerWire `json:"influencers"`
	Strategy      string           `json:"strategy"`
	SongSnippet   snippetWire      `json:"songSnippet"`
	CreativeIdeas []ideaWire       `json:"creativeIdeas"`
}

type influencerWire struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MatchScore *float64 `json:"matchScore"`
	Reasoning  string   `json:"reasoning"`
}

type snippetWire struct {
	StartTimestamp string `json:"startTimestamp"`
	EndTimestamp   string `json:"endTimestamp"`
	Reason         string `json:"reason"`
}

type ideaWire struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Difficulty     string   `json:"difficulty"`
	EstimatedViews *float64 `json:"estimatedViews"`
}

// ParseBundle validates a generation-phase reply and returns the campaign
// bundle. Influencer entries carry only oracle-owned fields (id, name,
// matchScore, reasoning); the assembler overlays catalog truth afterwards.
func ParseBundle(raw string) (*types.CampaignBundle, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err.Error())
	}

	if len(env.Response) == 0 || string(env.Response) == "null" {
		return nil, &SchemaViolationError{Violations: []validation.ValidationError{
			{Field: "response", Message: "is required"},
		}}
	}

	var wire bundleWire
	if err := json.Unmarshal(env.Response, &wire); err != nil {
		return nil, &SchemaViolationError{Violations: []validation.ValidationError{
			{Field: "response", Message: "must be a campaign bundle object"},
		}}
	}

	repairCreativeTypes(wire.CreativeIdeas)

	var c validation.Collector
	validateBundle(&c, wire)
	if c.HasErrors() {
		return nil, &SchemaViolationError{Violations: c.Errors()}
	}

	return buildBundle(wire), nil
}

// repairCreativeTypes is the single narrow tolerance for oracle noise: any
// creative idea type outside the vocabulary is overwritten with "other".
// No other field is ever auto-corrected.
func repairCreativeTypes(ideas []ideaWire) {
	for i := range ideas {
		if validation.ValidateEnum("type", ideas[i].Type, types.CreativeTypes) != nil {
			ideas[i].Type = string(types.CreativeOther)
		}
	}
}

func validateBundle(c *validation.Collector, wire bundleWire) {
	if n := len(wire.Influencers); n < MinInfluencers || n > MaxInfluencers {
		c.Addf("response.influencers", "must contain between %d and %d entries, got %d",
			MinInfluencers, MaxInfluencers, n)
	}
	for i, inf := range wire.Influencers {
		field := fmt.Sprintf("response.influencers[%d]", i)
		if inf.ID == "" && inf.Name == "" {
			c.Addf(field+".id", "id or name is required")
		}
		if inf.MatchScore == nil {
			c.Addf(field+".matchScore", "is required")
		}
		c.Add(validation.ValidateRequired(field+".reasoning", inf.Reasoning))
	}

	c.Add(validation.ValidateRequired("response.strategy", wire.Strategy))

	c.Add(validation.ValidateTimestamp("response.songSnippet.startTimestamp", wire.SongSnippet.StartTimestamp))
	c.Add(validation.ValidateTimestamp("response.songSnippet.endTimestamp", wire.SongSnippet.EndTimestamp))
	c.Add(validation.ValidateRequired("response.songSnippet.reason", wire.SongSnippet.Reason))

	if len(wire.CreativeIdeas) < MinCreativeIdeas {
		c.Addf("response.creativeIdeas", "must contain at least %d entries, got %d",
			MinCreativeIdeas, len(wire.CreativeIdeas))
	}
	for i, idea := range wire.CreativeIdeas {
		field := fmt.Sprintf("response.creativeIdeas[%d]", i)
		c.Add(validation.ValidateRequired(field+".title", idea.Title))
		c.Add(validation.ValidateRequired(field+".description", idea.Description))
		c.Add(validation.ValidateEnum(field+".type", idea.Type, types.CreativeTypes))
		c.Add(validation.ValidateEnum(field+".difficulty", idea.Difficulty, types.Difficulties))
		if idea.EstimatedViews == nil {
			c.Addf(field+".estimatedViews", "is required")
		} else {
			c.Add(validation.ValidateNonNegative(field+".estimatedViews", *idea.EstimatedViews))
			if *idea.EstimatedViews != math.Trunc(*idea.EstimatedViews) {
				c.Addf(field+".estimatedViews", "must be an integer")
			}
		}
	}
}

func buildBundle(wire bundleWire) *types.CampaignBundle {
	bundle := &types.CampaignBundle{
		Strategy: wire.Strategy,
		SongSnippet: types.SongSnippet{
			StartTimestamp: wire.SongSnippet.StartTimestamp,
			EndTimestamp:   wire.SongSnippet.EndTimestamp,
			Reason:         wire.SongSnippet.Reason,
		},
	}
	for _, inf := range wire.Influencers {
		bundle.Influencers = append(bundle.Influencers, types.RecommendedInfluencer{
			Influencer: types.Influencer{ID: inf.ID, Name: inf.Name},
			MatchScore: *inf.MatchScore,
			Reasoning:  inf.Reasoning,
		})
	}
	for _, idea := range wire.CreativeIdeas {
		bundle.CreativeIdeas = append(bundle.CreativeIdeas, types.CreativeIdea{
			Title:          idea.Title,
			Description:    idea.Description,
			Type:           types.CreativeType(idea.Type),
			Difficulty:     idea.Difficulty,
			EstimatedViews: int64(*idea.EstimatedViews),
		})
	}
	return bundle
}
