package domain

import (
	"fmt"
	"slices"
)

// Field names a single-valued survey field.
type Field string

const (
	FieldGender             Field = "gender"
	FieldAgeRange           Field = "ageRange"
	FieldComfortVsAesthetic Field = "comfortVsAesthetic"
	FieldBudget             Field = "budget"
)

// MultiField names a set-valued survey field.
type MultiField string

const (
	FieldPrimaryOccasions MultiField = "primaryOccasions"
	FieldStyleGoals       MultiField = "styleGoals"
	FieldColorPrefs       MultiField = "colorPrefs"
)

const (
	ComfortComfort   = "comfort"
	ComfortBalanced  = "balanced"
	ComfortAesthetic = "aesthetic"

	BudgetLow  = "low"
	BudgetMid  = "mid"
	BudgetHigh = "high"
)

var (
	GenderOptions    = []string{"", "male", "female", "nonbinary"}
	AgeRangeOptions  = []string{"", "teen", "20s", "30s", "40s", "50+"}
	ComfortOptions   = []string{ComfortComfort, ComfortBalanced, ComfortAesthetic}
	BudgetOptions    = []string{BudgetLow, BudgetMid, BudgetHigh}
	OccasionOptions  = []string{"Work", "School", "Dates", "Nights Out", "Weddings", "Interviews", "Travel"}
	StyleGoalOptions = []string{"Look taller", "Look more muscular", "More professional", "Be more expressive", "Low maintenance"}
	ColorOptions     = []string{"Black", "White", "Grey", "Navy", "Olive", "Tan", "Cream", "Red", "Blue", "Green", "Yellow"}
)

// Survey is the style-preference questionnaire. Values are replaced whole on
// every update; Set and Toggle never modify the receiver's slices.
type Survey struct {
	Gender             string   `json:"gender"`
	AgeRange           string   `json:"ageRange"`
	PrimaryOccasions   []string `json:"primaryOccasions"`
	StyleGoals         []string `json:"styleGoals"`
	ComfortVsAesthetic string   `json:"comfortVsAesthetic"`
	ColorPrefs         []string `json:"colorPrefs"`
	Budget             string   `json:"budget"`
}

func DefaultSurvey() Survey {
	return Survey{
		PrimaryOccasions:   []string{},
		StyleGoals:         []string{},
		ComfortVsAesthetic: ComfortBalanced,
		ColorPrefs:         []string{},
		Budget:             BudgetMid,
	}
}

// Clone returns a deep copy that shares no backing arrays with s.
func (s Survey) Clone() Survey {
	out := s
	out.PrimaryOccasions = cloneSet(s.PrimaryOccasions)
	out.StyleGoals = cloneSet(s.StyleGoals)
	out.ColorPrefs = cloneSet(s.ColorPrefs)
	return out
}

// Set replaces a single-valued field. Unknown fields are a programming error.
func (s Survey) Set(field Field, value string) Survey {
	out := s.Clone()
	switch field {
	case FieldGender:
		out.Gender = value
	case FieldAgeRange:
		out.AgeRange = value
	case FieldComfortVsAesthetic:
		out.ComfortVsAesthetic = value
	case FieldBudget:
		out.Budget = value
	default:
		panic(fmt.Sprintf("survey: unknown field %q", field))
	}
	return out
}

// Toggle removes value from a set-valued field when present and appends it
// otherwise.
func (s Survey) Toggle(field MultiField, value string) Survey {
	out := s.Clone()
	switch field {
	case FieldPrimaryOccasions:
		out.PrimaryOccasions = toggle(out.PrimaryOccasions, value)
	case FieldStyleGoals:
		out.StyleGoals = toggle(out.StyleGoals, value)
	case FieldColorPrefs:
		out.ColorPrefs = toggle(out.ColorPrefs, value)
	default:
		panic(fmt.Sprintf("survey: unknown multi-select field %q", field))
	}
	return out
}

// Has reports whether value is selected in a set-valued field.
func (s Survey) Has(field MultiField, value string) bool {
	return slices.Contains(s.Values(field), value)
}

func (s Survey) Values(field MultiField) []string {
	switch field {
	case FieldPrimaryOccasions:
		return s.PrimaryOccasions
	case FieldStyleGoals:
		return s.StyleGoals
	case FieldColorPrefs:
		return s.ColorPrefs
	default:
		panic(fmt.Sprintf("survey: unknown multi-select field %q", field))
	}
}

// Options lists the values offered for a single-valued field.
func (f Field) Options() []string {
	switch f {
	case FieldGender:
		return GenderOptions
	case FieldAgeRange:
		return AgeRangeOptions
	case FieldComfortVsAesthetic:
		return ComfortOptions
	case FieldBudget:
		return BudgetOptions
	default:
		return nil
	}
}

// Options lists the values offered for a set-valued field.
func (f MultiField) Options() []string {
	switch f {
	case FieldPrimaryOccasions:
		return OccasionOptions
	case FieldStyleGoals:
		return StyleGoalOptions
	case FieldColorPrefs:
		return ColorOptions
	default:
		return nil
	}
}

func toggle(values []string, value string) []string {
	if slices.Contains(values, value) {
		out := make([]string, 0, len(values))
		for _, v := range values {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	}
	return append(values, value)
}

func cloneSet(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
