package assemble

import (
	"testing"

	"github.com/beatreach/beatreach/internal/types"
)

func testCatalog() []types.Influencer {
	return []types.Influencer{
		{ID: "13800", Name: "Tommy Pena", Followers: 1200000, Niche: "dance", Location: "Los Angeles", Price: 2500},
		{ID: "4363", Name: "Patricio Arroyuelo Trigos", Followers: 850000, Niche: "comedy", Location: "Mexico City", Price: 1800},
		{ID: "3753", Name: "Melissa Parra", Followers: 620000, Niche: "lifestyle", Location: "Bogotá", Price: 1200},
		{ID: "12687", Name: "John Gill", Followers: 450000, Niche: "music", Location: "Austin", Price: 900},
		{ID: "4736", Name: "Anabel Ramírez", Followers: 380000, Niche: "fashion", Location: "Madrid", Price: 800},
		{ID: "4519", Name: "Holley Stevenson", Followers: 290000, Niche: "beauty", Location: "Nashville", Price: 650},
	}
}

func selected(id, name string, score float64) types.RecommendedInfluencer {
	return types.RecommendedInfluencer{
		Influencer: types.Influencer{ID: id, Name: name},
		MatchScore: score,
		Reasoning:  "good fit",
	}
}

// --- Assemble Tests ---

func TestAssemble_MatchesByID(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("13800", "Tommy Pena", 0.95),
		selected("4363", "Patricio Arroyuelo Trigos", 0.90),
		selected("3753", "Melissa Parra", 0.85),
		selected("12687", "John Gill", 0.80),
		selected("4736", "Anabel Ramírez", 0.75),
	}, testCatalog())

	if len(result.Influencers) != 5 {
		t.Fatalf("survivors = %d, want 5", len(result.Influencers))
	}
	if result.Degraded {
		t.Error("Degraded = true, want false")
	}
	if result.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", result.Dropped)
	}
}

func TestAssemble_CatalogFieldsAreAuthoritative(t *testing.T) {
	// The oracle misreports follower count and price; catalog truth wins.
	sel := selected("13800", "Tommy Pena", 0.95)
	sel.Followers = 99
	sel.Price = 1

	result := Assemble([]types.RecommendedInfluencer{sel}, testCatalog())

	got := result.Influencers[0]
	if got.Followers != 1200000 {
		t.Errorf("Followers = %d, want catalog value 1200000", got.Followers)
	}
	if got.Price != 2500 {
		t.Errorf("Price = %v, want catalog value 2500", got.Price)
	}
	if got.MatchScore != 0.95 || got.Reasoning != "good fit" {
		t.Error("oracle-owned fields were not preserved")
	}
}

func TestAssemble_DropsHallucinatedEntries(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("13800", "Tommy Pena", 0.95),
		selected("99999", "Invented Person", 0.90),
	}, testCatalog())

	if len(result.Influencers) != 1 {
		t.Fatalf("survivors = %d, want 1", len(result.Influencers))
	}
	if result.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", result.Dropped)
	}
}

func TestAssemble_NameFallbackCaseInsensitive(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("", "melissa parra", 0.8),
	}, testCatalog())

	if len(result.Influencers) != 1 {
		t.Fatalf("survivors = %d, want 1", len(result.Influencers))
	}
	if result.Influencers[0].ID != "3753" {
		t.Errorf("resolved ID = %q, want 3753", result.Influencers[0].ID)
	}
}

func TestAssemble_UnknownIDFallsBackToName(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("wrong-id", "John Gill", 0.7),
	}, testCatalog())

	if len(result.Influencers) != 1 || result.Influencers[0].ID != "12687" {
		t.Fatalf("result = %+v, want John Gill resolved by name", result.Influencers)
	}
}

func TestAssemble_ClampsMatchScore(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("13800", "Tommy Pena", 1.7),
		selected("4363", "Patricio Arroyuelo Trigos", -0.2),
	}, testCatalog())

	if result.Influencers[0].MatchScore != 1 {
		t.Errorf("score = %v, want clamped to 1", result.Influencers[0].MatchScore)
	}
	if result.Influencers[1].MatchScore != 0 {
		t.Errorf("score = %v, want clamped to 0", result.Influencers[1].MatchScore)
	}
}

func TestAssemble_DegradedBelowMinimum(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("13800", "Tommy Pena", 0.9),
		selected("99998", "Ghost One", 0.9),
		selected("99997", "Ghost Two", 0.9),
		selected("99996", "Ghost Three", 0.9),
		selected("99995", "Ghost Four", 0.9),
	}, testCatalog())

	if !result.Degraded {
		t.Error("Degraded = false, want true with 1 survivor")
	}
	if result.Dropped != 4 {
		t.Errorf("Dropped = %d, want 4", result.Dropped)
	}
}

func TestAssemble_PreservesOracleOrder(t *testing.T) {
	result := Assemble([]types.RecommendedInfluencer{
		selected("4736", "Anabel Ramírez", 0.9),
		selected("13800", "Tommy Pena", 0.8),
	}, testCatalog())

	if result.Influencers[0].ID != "4736" || result.Influencers[1].ID != "13800" {
		t.Errorf("order = [%s, %s], want oracle order preserved",
			result.Influencers[0].ID, result.Influencers[1].ID)
	}
}
