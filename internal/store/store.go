package store

import (
	"context"

	"github.com/beatreach/beatreach/internal/types"
)

// Store defines the interface contract for all relational storage operations.
type Store interface {
	ListInfluencers(ctx context.Context) ([]types.Influencer, error)
	CountInfluencers(ctx context.Context) (int64, error)
	SeedInfluencers(ctx context.Context, entries []types.Influencer) (int, error)

	CreateUser(ctx context.Context, user types.NewUser) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)

	SaveCampaign(ctx context.Context, campaign types.NewCampaign) (*types.SavedCampaign, error)
	GetCampaign(ctx context.Context, id string) (*types.SavedCampaign, error)
	ListCampaigns(ctx context.Context) ([]types.CampaignSummary, error)

	Close() error
}
