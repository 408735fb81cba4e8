// Package prefs implements the campaign preference model: the structured
// record of what has been learned from the conversation so far, the
// completeness predicate over it, and the merge rules for per-turn updates.
package prefs

import (
	"bytes"
	"encoding/json"

	"github.com/beatreach/beatreach/internal/types"
	"github.com/beatreach/beatreach/internal/validation"
)

// FieldOrder is the canonical preference field order. MissingFields always
// reports in this order so the gathering prompt is deterministic.
var FieldOrder = []string{"gender", "location", "priceRange", "songUrl", "goals"}

// IsComplete reports whether every required preference field is present.
// Pure; recomputed fresh each turn, never cached.
func IsComplete(p types.Preferences) bool {
	return len(MissingFields(p)) == 0
}

// MissingFields returns the names of absent required fields in canonical order.
func MissingFields(p types.Preferences) []string {
	var missing []string
	for _, field := range FieldOrder {
		if !present(p, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// present applies the per-field presence rules. A field counts as present
// only when it holds a value satisfying its type; a partially filled price
// range is treated as absent.
func present(p types.Preferences, field string) bool {
	switch field {
	case "gender":
		return p.Gender != nil && validation.ValidateEnum("gender", string(*p.Gender), types.Genders) == nil
	case "location":
		return p.Location != nil && *p.Location != ""
	case "priceRange":
		return p.PriceRange != nil && p.PriceRange.Min != nil && p.PriceRange.Max != nil
	case "songUrl":
		return p.SongURL != nil && validation.ValidateURL("songUrl", *p.SongURL) == nil
	case "goals":
		return len(p.Goals) > 0
	default:
		return false
	}
}

var jsonNull = []byte("null")

// Merge applies an update over the current preferences. Keys absent from the
// update leave the current value untouched; an explicit JSON null clears the
// field; anything else replaces it. Pure: the input is never mutated.
//
// Field values in the update are assumed to have passed reply validation;
// a value that still fails to decode leaves the current field unchanged.
func Merge(current types.Preferences, update types.PreferenceUpdate) types.Preferences {
	merged := clone(current)

	for field, raw := range update {
		cleared := isNull(raw)
		switch field {
		case "gender":
			if cleared {
				merged.Gender = nil
			} else {
				var g types.Gender
				if json.Unmarshal(raw, &g) == nil {
					merged.Gender = &g
				}
			}
		case "location":
			if cleared {
				merged.Location = nil
			} else {
				var s string
				if json.Unmarshal(raw, &s) == nil {
					merged.Location = &s
				}
			}
		case "priceRange":
			if cleared {
				merged.PriceRange = nil
			} else {
				var pr types.PriceRange
				if json.Unmarshal(raw, &pr) == nil {
					merged.PriceRange = &pr
				}
			}
		case "songUrl":
			if cleared {
				merged.SongURL = nil
			} else {
				var s string
				if json.Unmarshal(raw, &s) == nil {
					merged.SongURL = &s
				}
			}
		case "goals":
			if cleared {
				merged.Goals = nil
			} else {
				var goals []string
				if json.Unmarshal(raw, &goals) == nil {
					merged.Goals = goals
				}
			}
		}
	}

	return merged
}

// ValidateUpdate checks every recognized field of an update for type and
// vocabulary errors. Unknown keys are ignored; null values are always valid.
func ValidateUpdate(update types.PreferenceUpdate) []validation.ValidationError {
	var c validation.Collector

	for field, raw := range update {
		if isNull(raw) {
			continue
		}
		switch field {
		case "gender":
			var g string
			if json.Unmarshal(raw, &g) != nil {
				c.Addf("updatedPreferences.gender", "must be a string")
				continue
			}
			if err := validation.ValidateEnum("updatedPreferences.gender", g, types.Genders); err != nil {
				c.Add(err)
			}
		case "location":
			var s string
			if json.Unmarshal(raw, &s) != nil {
				c.Addf("updatedPreferences.location", "must be a string")
			}
		case "priceRange":
			var pr types.PriceRange
			if json.Unmarshal(raw, &pr) != nil {
				c.Addf("updatedPreferences.priceRange", "must be an object with numeric min and max")
				continue
			}
			if pr.Min != nil && pr.Max != nil && *pr.Min > *pr.Max {
				c.Addf("updatedPreferences.priceRange", "min must not exceed max")
			}
		case "songUrl":
			var s string
			if json.Unmarshal(raw, &s) != nil {
				c.Addf("updatedPreferences.songUrl", "must be a string")
				continue
			}
			if err := validation.ValidateURL("updatedPreferences.songUrl", s); err != nil {
				c.Add(err)
			}
		case "goals":
			var goals []string
			if json.Unmarshal(raw, &goals) != nil {
				c.Addf("updatedPreferences.goals", "must be an array of strings")
			}
		}
	}

	return c.Errors()
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func clone(p types.Preferences) types.Preferences {
	out := types.Preferences{}
	if p.Gender != nil {
		g := *p.Gender
		out.Gender = &g
	}
	if p.Location != nil {
		l := *p.Location
		out.Location = &l
	}
	if p.PriceRange != nil {
		pr := types.PriceRange{}
		if p.PriceRange.Min != nil {
			v := *p.PriceRange.Min
			pr.Min = &v
		}
		if p.PriceRange.Max != nil {
			v := *p.PriceRange.Max
			pr.Max = &v
		}
		out.PriceRange = &pr
	}
	if p.SongURL != nil {
		s := *p.SongURL
		out.SongURL = &s
	}
	if p.Goals != nil {
		out.Goals = append([]string(nil), p.Goals...)
	}
	return out
}
