package prefs

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/beatreach/beatreach/internal/types"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func genderPtr(g types.Gender) *types.Gender { return &g }

// completePrefs returns a preference set with every required field present.
func completePrefs() types.Preferences {
	return types.Preferences{
		Gender:     genderPtr(types.GenderFemale),
		Location:   strPtr("Mexico City"),
		PriceRange: &types.PriceRange{Min: floatPtr(500), Max: floatPtr(2000)},
		SongURL:    strPtr("https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT"),
		Goals:      []string{"brand awareness"},
	}
}

// --- Completeness Tests ---

func TestIsComplete_AllFieldsPresent(t *testing.T) {
	if !IsComplete(completePrefs()) {
		t.Error("IsComplete(all fields) = false, want true")
	}
}

func TestIsComplete_Empty(t *testing.T) {
	if IsComplete(types.Preferences{}) {
		t.Error("IsComplete(empty) = true, want false")
	}
}

func TestMissingFields_CanonicalOrder(t *testing.T) {
	missing := MissingFields(types.Preferences{})
	want := []string{"gender", "location", "priceRange", "songUrl", "goals"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingFields(empty) = %v, want %v", missing, want)
	}
}

func TestMissingFields_PartialSet(t *testing.T) {
	p := types.Preferences{
		Location: strPtr("Bogotá"),
		Goals:    []string{"virality"},
	}
	missing := MissingFields(p)
	want := []string{"gender", "priceRange", "songUrl"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingFields = %v, want %v", missing, want)
	}
}

func TestMissingFields_PartialPriceRangeIsAbsent(t *testing.T) {
	// Only one bound set: the range does not count as present.
	p := completePrefs()
	p.PriceRange = &types.PriceRange{Min: floatPtr(500)}

	missing := MissingFields(p)
	if !reflect.DeepEqual(missing, []string{"priceRange"}) {
		t.Errorf("MissingFields = %v, want [priceRange]", missing)
	}
}

func TestMissingFields_InvalidSongURLIsAbsent(t *testing.T) {
	p := completePrefs()
	p.SongURL = strPtr("not a url")

	missing := MissingFields(p)
	if !reflect.DeepEqual(missing, []string{"songUrl"}) {
		t.Errorf("MissingFields = %v, want [songUrl]", missing)
	}
}

func TestMissingFields_EmptyGoalsIsAbsent(t *testing.T) {
	p := completePrefs()
	p.Goals = []string{}

	missing := MissingFields(p)
	if !reflect.DeepEqual(missing, []string{"goals"}) {
		t.Errorf("MissingFields = %v, want [goals]", missing)
	}
}

// --- Merge Tests ---

func update(pairs map[string]string) types.PreferenceUpdate {
	u := types.PreferenceUpdate{}
	for k, v := range pairs {
		u[k] = json.RawMessage(v)
	}
	return u
}

func TestMerge_AbsentKeysLeaveValues(t *testing.T) {
	current := completePrefs()
	merged := Merge(current, types.PreferenceUpdate{})

	if !reflect.DeepEqual(merged, current) {
		t.Errorf("Merge(current, empty) = %+v, want unchanged", merged)
	}
}

func TestMerge_ValueReplaces(t *testing.T) {
	current := completePrefs()
	merged := Merge(current, update(map[string]string{
		"location": `"Buenos Aires"`,
	}))

	if merged.Location == nil || *merged.Location != "Buenos Aires" {
		t.Errorf("merged.Location = %v, want Buenos Aires", merged.Location)
	}
	if *merged.Gender != types.GenderFemale {
		t.Error("untouched field changed during merge")
	}
}

func TestMerge_NullClears(t *testing.T) {
	current := completePrefs()
	merged := Merge(current, update(map[string]string{
		"songUrl": `null`,
		"goals":   `null`,
	}))

	if merged.SongURL != nil {
		t.Errorf("merged.SongURL = %v, want nil after explicit null", *merged.SongURL)
	}
	if merged.Goals != nil {
		t.Errorf("merged.Goals = %v, want nil after explicit null", merged.Goals)
	}
	if merged.Location == nil {
		t.Error("field not named in the update was cleared")
	}
}

func TestMerge_SetsNewFields(t *testing.T) {
	merged := Merge(types.Preferences{}, update(map[string]string{
		"gender":     `"all"`,
		"priceRange": `{"min":100,"max":800}`,
		"goals":      `["reach","engagement"]`,
	}))

	if merged.Gender == nil || *merged.Gender != types.GenderAll {
		t.Errorf("merged.Gender = %v, want all", merged.Gender)
	}
	if merged.PriceRange == nil || *merged.PriceRange.Min != 100 || *merged.PriceRange.Max != 800 {
		t.Errorf("merged.PriceRange = %+v, want {100 800}", merged.PriceRange)
	}
	if !reflect.DeepEqual(merged.Goals, []string{"reach", "engagement"}) {
		t.Errorf("merged.Goals = %v", merged.Goals)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	current := completePrefs()
	_ = Merge(current, update(map[string]string{
		"location": `null`,
		"goals":    `["different"]`,
	}))

	if current.Location == nil || *current.Location != "Mexico City" {
		t.Error("Merge mutated the input preferences")
	}
	if !reflect.DeepEqual(current.Goals, []string{"brand awareness"}) {
		t.Error("Merge mutated the input goals slice")
	}
}

func TestMerge_UndecodableValueLeavesField(t *testing.T) {
	current := completePrefs()
	merged := Merge(current, update(map[string]string{
		"priceRange": `"not an object"`,
	}))

	if merged.PriceRange == nil || *merged.PriceRange.Min != 500 {
		t.Errorf("merged.PriceRange = %+v, want unchanged on decode failure", merged.PriceRange)
	}
}

// --- ValidateUpdate Tests ---

func TestValidateUpdate_Valid(t *testing.T) {
	errs := ValidateUpdate(update(map[string]string{
		"gender":     `"male"`,
		"location":   `"Madrid"`,
		"priceRange": `{"min":100,"max":500}`,
		"songUrl":    `"https://open.spotify.com/track/abc"`,
		"goals":      `["sales"]`,
	}))
	if len(errs) != 0 {
		t.Errorf("ValidateUpdate(valid) = %v, want no errors", errs)
	}
}

func TestValidateUpdate_NullIsAlwaysValid(t *testing.T) {
	errs := ValidateUpdate(update(map[string]string{
		"gender":  `null`,
		"songUrl": `null`,
	}))
	if len(errs) != 0 {
		t.Errorf("ValidateUpdate(nulls) = %v, want no errors", errs)
	}
}

func TestValidateUpdate_Violations(t *testing.T) {
	tests := []struct {
		name      string
		update    types.PreferenceUpdate
		wantField string
	}{
		{"gender_out_of_vocab", update(map[string]string{"gender": `"nonbinary"`}), "updatedPreferences.gender"},
		{"gender_wrong_type", update(map[string]string{"gender": `5`}), "updatedPreferences.gender"},
		{"price_inverted", update(map[string]string{"priceRange": `{"min":900,"max":100}`}), "updatedPreferences.priceRange"},
		{"price_wrong_type", update(map[string]string{"priceRange": `[1,2]`}), "updatedPreferences.priceRange"},
		{"song_not_url", update(map[string]string{"songUrl": `"just words"`}), "updatedPreferences.songUrl"},
		{"goals_wrong_type", update(map[string]string{"goals": `"reach"`}), "updatedPreferences.goals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUpdate(tt.update)
			if len(errs) != 1 {
				t.Fatalf("ValidateUpdate = %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("error.Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidateUpdate_UnknownKeysIgnored(t *testing.T) {
	errs := ValidateUpdate(update(map[string]string{
		"budget": `"irrelevant"`,
	}))
	if len(errs) != 0 {
		t.Errorf("ValidateUpdate(unknown key) = %v, want no errors", errs)
	}
}
