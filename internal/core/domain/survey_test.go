package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDefaultSurvey(t *testing.T) {
	s := DefaultSurvey()
	if s.ComfortVsAesthetic != ComfortBalanced {
		t.Fatalf("expected default comfort balanced, got %q", s.ComfortVsAesthetic)
	}
	if s.Budget != BudgetMid {
		t.Fatalf("expected default budget mid, got %q", s.Budget)
	}
	if s.Gender != "" || s.AgeRange != "" {
		t.Fatalf("expected unset gender and age range, got %+v", s)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"gender":"","ageRange":"","primaryOccasions":[],"styleGoals":[],"comfortVsAesthetic":"balanced","colorPrefs":[],"budget":"mid"}`
	if string(raw) != want {
		t.Fatalf("unexpected wire form:\n got %s\nwant %s", raw, want)
	}
}

func TestToggleParity(t *testing.T) {
	fields := []MultiField{FieldPrimaryOccasions, FieldStyleGoals, FieldColorPrefs}
	for _, field := range fields {
		for _, initiallySelected := range []bool{false, true} {
			value := field.Options()[0]
			start := DefaultSurvey()
			if initiallySelected {
				start = start.Toggle(field, value)
			}

			s := start
			for n := 1; n <= 6; n++ {
				s = s.Toggle(field, value)
				want := initiallySelected
				if n%2 == 1 {
					want = !initiallySelected
				}
				if got := s.Has(field, value); got != want {
					t.Fatalf("%s initial=%v after %d toggles: membership %v, want %v", field, initiallySelected, n, got, want)
				}
			}
		}
	}
}

func TestToggleTwiceOnEmptyOccasionsLeavesEmpty(t *testing.T) {
	s := DefaultSurvey().
		Toggle(FieldPrimaryOccasions, "Work").
		Toggle(FieldPrimaryOccasions, "Work")
	if len(s.PrimaryOccasions) != 0 {
		t.Fatalf("expected empty occasions, got %v", s.PrimaryOccasions)
	}
	if s.PrimaryOccasions == nil {
		t.Fatalf("expected empty set to stay non-nil for [] serialization")
	}
}

func TestTogglePreservesInsertionOrderAndNoDuplicates(t *testing.T) {
	s := DefaultSurvey().
		Toggle(FieldColorPrefs, "Navy").
		Toggle(FieldColorPrefs, "Black").
		Toggle(FieldColorPrefs, "Olive").
		Toggle(FieldColorPrefs, "Black").
		Toggle(FieldColorPrefs, "Black")

	want := []string{"Navy", "Olive", "Black"}
	if !reflect.DeepEqual(s.ColorPrefs, want) {
		t.Fatalf("expected %v, got %v", want, s.ColorPrefs)
	}
}

func TestUpdatesDoNotMutateReceiver(t *testing.T) {
	base := DefaultSurvey().Toggle(FieldStyleGoals, "Look taller")
	before := base.Clone()

	_ = base.Toggle(FieldStyleGoals, "Low maintenance")
	_ = base.Toggle(FieldStyleGoals, "Look taller")
	_ = base.Set(FieldBudget, BudgetHigh)

	if !reflect.DeepEqual(base, before) {
		t.Fatalf("receiver changed: %+v vs %+v", base, before)
	}
}

func TestSetSingleValuedFields(t *testing.T) {
	s := DefaultSurvey().
		Set(FieldGender, "female").
		Set(FieldAgeRange, "30s").
		Set(FieldComfortVsAesthetic, ComfortAesthetic).
		Set(FieldBudget, BudgetLow)

	if s.Gender != "female" || s.AgeRange != "30s" || s.ComfortVsAesthetic != ComfortAesthetic || s.Budget != BudgetLow {
		t.Fatalf("unexpected survey after Set: %+v", s)
	}
}

func TestSetUnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown field")
		}
	}()
	DefaultSurvey().Set(Field("shoeSize"), "42")
}
