// Package agent implements the conversation controller: the per-turn state
// machine that decides whether to keep gathering campaign requirements or to
// generate the final recommendation bundle.
//
// The machine is memoryless across turns. State is derived each turn purely
// from the completeness of the caller-supplied preferences: missing fields
// mean Gathering, a complete set means Generating. A turn is atomic; no
// partial preference update is ever committed on failure.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/beatreach/beatreach/internal/assemble"
	"github.com/beatreach/beatreach/internal/catalog"
	"github.com/beatreach/beatreach/internal/oracle"
	"github.com/beatreach/beatreach/internal/prefs"
	"github.com/beatreach/beatreach/internal/reply"
	"github.com/beatreach/beatreach/internal/types"
)

// SuccessMessage is the fixed assistant message returned with a completed
// campaign bundle.
const SuccessMessage = "Campaign strategy generated successfully!"

// Retry policy for recoverable oracle noise (malformed output or schema
// violations). Transport failures are never retried here; that policy
// belongs to the call layer.
const (
	maxOracleRetries = 2
	retryDelay       = 200 * time.Millisecond
)

// Agent orchestrates one controller turn per call.
type Agent struct {
	oracle  oracle.Client
	catalog catalog.Accessor
}

// New creates a conversation controller.
func New(o oracle.Client, c catalog.Accessor) *Agent {
	return &Agent{oracle: o, catalog: c}
}

// Turn executes one controller turn. The new user message is appended to the
// history before any oracle call so the oracle always sees the full
// conversation; the caller's own history slice is never mutated.
func (a *Agent) Turn(ctx context.Context, req types.TurnRequest) (*types.TurnResponse, error) {
	history := make([]types.Message, 0, len(req.MessageHistory)+1)
	history = append(history, req.MessageHistory...)
	history = append(history, types.Message{Role: types.RoleUser, Content: req.Message})

	missing := prefs.MissingFields(req.Preferences)
	if len(missing) > 0 {
		return a.gather(ctx, req.Preferences, missing, history)
	}
	return a.generate(ctx, req.Preferences)
}

// gather runs the Gathering state: one oracle call (retried on recoverable
// noise), then merges the returned preference updates over the current set.
func (a *Agent) gather(ctx context.Context, current types.Preferences, missing []string, history []types.Message) (*types.TurnResponse, error) {
	var gathered *reply.Gathering
	err := retry.Do(ctx, a.backoff(), func(ctx context.Context) error {
		raw, err := a.oracle.RequestGathering(ctx, missing, current, history)
		if err != nil {
			return err
		}
		g, err := reply.ParseGathering(raw)
		if err != nil {
			return retry.RetryableError(err)
		}
		gathered = g
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gathering turn: %w", err)
	}

	return &types.TurnResponse{
		Message:            gathered.Message,
		UpdatedPreferences: prefs.Merge(current, gathered.Updates),
		Complete:           false,
		Response:           nil,
	}, nil
}

// generate runs the Generating state: one oracle call (retried on
// recoverable noise), bundle validation with repair, then catalog
// cross-referencing. Preferences pass through unchanged.
func (a *Agent) generate(ctx context.Context, current types.Preferences) (*types.TurnResponse, error) {
	candidates, err := a.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate catalog: %w", err)
	}

	var bundle *types.CampaignBundle
	err = retry.Do(ctx, a.backoff(), func(ctx context.Context) error {
		raw, err := a.oracle.RequestGeneration(ctx, current, candidates)
		if err != nil {
			return err
		}
		b, err := reply.ParseBundle(raw)
		if err != nil {
			return retry.RetryableError(err)
		}
		bundle = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generation turn: %w", err)
	}

	result := assemble.Assemble(bundle.Influencers, candidates)
	bundle.Influencers = result.Influencers

	resp := &types.TurnResponse{
		Message:            SuccessMessage,
		UpdatedPreferences: current,
		Complete:           true,
		Response:           bundle,
		Degraded:           result.Degraded,
	}
	if result.Degraded {
		resp.Warning = fmt.Sprintf(
			"only %d of the recommended influencers could be verified against the catalog (minimum %d)",
			len(result.Influencers), assemble.MinRecommended)
	}
	return resp, nil
}

func (a *Agent) backoff() retry.Backoff {
	return retry.WithMaxRetries(maxOracleRetries, retry.NewConstant(retryDelay))
}
