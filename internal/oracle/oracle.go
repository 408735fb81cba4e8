// Package oracle wraps the external text-generation service. It builds the
// gathering and generation prompts, requests a JSON-shaped answer, and hands
// back the raw textual payload. Parsing and validation live in reply.
package oracle

import (
	"context"
	"errors"

	"github.com/beatreach/beatreach/internal/types"
)

// ErrUnavailable indicates the generation service could not be reached or
// returned an empty payload. Fatal for the turn; never retried here.
var ErrUnavailable = errors.New("generation service unavailable")

// Client defines the interface contract for the generation oracle.
// Each call performs exactly one outbound request; retry policy belongs to
// the turn-level caller.
type Client interface {
	// RequestGathering asks the oracle to continue collecting the named
	// missing preference fields and returns the raw reply text.
	RequestGathering(ctx context.Context, missing []string, current types.Preferences, history []types.Message) (string, error)

	// RequestGeneration asks the oracle for a full campaign bundle chosen
	// from the provided candidate catalog and returns the raw reply text.
	RequestGeneration(ctx context.Context, current types.Preferences, catalog []types.Influencer) (string, error)
}
