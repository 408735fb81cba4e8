// Package catalog provides read-only access to the candidate influencer pool.
package catalog

import (
	"context"

	"github.com/beatreach/beatreach/internal/types"
)

// Accessor defines the interface contract for catalog reads. The catalog is
// immutable for the duration of a recommendation cycle and safe to share
// across concurrent turns.
type Accessor interface {
	List(ctx context.Context) ([]types.Influencer, error)
}

// Static is an in-memory Accessor over a fixed slice.
type Static []types.Influencer

// List returns a copy of the backing slice so callers cannot mutate it.
func (s Static) List(ctx context.Context) ([]types.Influencer, error) {
	out := make([]types.Influencer, len(s))
	copy(out, s)
	return out, nil
}

// influencerLister is the store capability the store-backed accessor needs.
type influencerLister interface {
	ListInfluencers(ctx context.Context) ([]types.Influencer, error)
}

// StoreBacked adapts the relational store to the Accessor contract.
type StoreBacked struct {
	store influencerLister
}

// NewStoreBacked creates a store-backed catalog accessor.
func NewStoreBacked(store influencerLister) *StoreBacked {
	return &StoreBacked{store: store}
}

// List returns the full candidate list from the store.
func (a *StoreBacked) List(ctx context.Context) ([]types.Influencer, error) {
	return a.store.ListInfluencers(ctx)
}
