// Package assemble cross-references oracle-selected influencers against the
// authoritative candidate catalog. Every oracle-named entity is untrusted
// input: entries without a catalog match are discarded, and all displayed
// fields come from catalog truth with only the oracle's matchScore and
// reasoning overlaid.
package assemble

import (
	"strings"

	"github.com/beatreach/beatreach/internal/types"
)

// MinRecommended is the policy minimum of surviving influencers below which
// the result is reported as degraded.
const MinRecommended = 5

// Result is the outcome of catalog cross-referencing.
type Result struct {
	Influencers []types.RecommendedInfluencer
	// Degraded is true when fewer than MinRecommended entries survived the
	// hallucination guard. Dropped counts the discarded entries.
	Degraded bool
	Dropped  int
}

// Assemble resolves each oracle entry against the catalog by id, falling
// back to an exact case-insensitive name match when the id is absent or
// unknown. Misses are dropped, matchScore is clamped to [0,1].
func Assemble(selected []types.RecommendedInfluencer, catalog []types.Influencer) Result {
	byID := make(map[string]types.Influencer, len(catalog))
	byName := make(map[string]types.Influencer, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
		byName[strings.ToLower(c.Name)] = c
	}

	var out []types.RecommendedInfluencer
	for _, sel := range selected {
		truth, ok := byID[sel.ID]
		if !ok {
			truth, ok = byName[strings.ToLower(sel.Name)]
		}
		if !ok {
			continue
		}
		out = append(out, types.RecommendedInfluencer{
			Influencer: truth,
			MatchScore: clamp01(sel.MatchScore),
			Reasoning:  sel.Reasoning,
		})
	}

	return Result{
		Influencers: out,
		Degraded:    len(out) < MinRecommended,
		Dropped:     len(selected) - len(out),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
