package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/beatreach/beatreach/internal/types"
)

func TestStatic_ListReturnsCopy(t *testing.T) {
	s := Static{{ID: "1", Name: "One"}, {ID: "2", Name: "Two"}}

	out, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}

	out[0].Name = "mutated"
	if s[0].Name != "One" {
		t.Error("mutating the returned slice changed the backing catalog")
	}
}

type fakeLister struct {
	out []types.Influencer
	err error
}

func (f *fakeLister) ListInfluencers(ctx context.Context) ([]types.Influencer, error) {
	return f.out, f.err
}

func TestStoreBacked_List(t *testing.T) {
	lister := &fakeLister{out: []types.Influencer{{ID: "13800", Name: "Tommy Pena"}}}
	a := NewStoreBacked(lister)

	out, err := a.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "13800" {
		t.Errorf("out = %+v", out)
	}
}

func TestStoreBacked_ListPropagatesError(t *testing.T) {
	wantErr := errors.New("db closed")
	a := NewStoreBacked(&fakeLister{err: wantErr})

	_, err := a.List(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want propagated store error", err)
	}
}

func TestSeed_CompleteEntries(t *testing.T) {
	entries := Seed()
	if len(entries) != 9 {
		t.Fatalf("seed size = %d, want 9", len(entries))
	}

	ids := make(map[string]bool, len(entries))
	for _, inf := range entries {
		if inf.ID == "" || inf.Name == "" || inf.Niche == "" || inf.Location == "" {
			t.Errorf("incomplete entry: %+v", inf)
		}
		if inf.Platform != "TikTok" {
			t.Errorf("%s: Platform = %q, want TikTok", inf.ID, inf.Platform)
		}
		if inf.Followers <= 0 || inf.Price <= 0 || inf.EngagementRate <= 0 {
			t.Errorf("%s: non-positive metrics", inf.ID)
		}
		if ids[inf.ID] {
			t.Errorf("duplicate seed id %s", inf.ID)
		}
		ids[inf.ID] = true
	}
}
