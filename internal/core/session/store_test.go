package session

import (
	"testing"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

func TestUpdateReturnsNewStateAndBumpsVersion(t *testing.T) {
	initial := NewState()
	next := Update(initial, ToggleField{Field: domain.FieldPrimaryOccasions, Value: "Work"})

	if next.Version != initial.Version+1 {
		t.Fatalf("expected version %d, got %d", initial.Version+1, next.Version)
	}
	if len(initial.Survey.PrimaryOccasions) != 0 {
		t.Fatalf("initial state mutated: %v", initial.Survey.PrimaryOccasions)
	}
	if !next.Survey.Has(domain.FieldPrimaryOccasions, "Work") {
		t.Fatalf("expected Work selected, got %v", next.Survey.PrimaryOccasions)
	}
}

func TestSelectFileReplacesAndClears(t *testing.T) {
	store := NewStore()
	first := &domain.SelectedFile{Name: "a.jpg", Data: []byte("a")}
	second := &domain.SelectedFile{Name: "b.jpg", Data: []byte("b")}

	store.SelectFile(first)
	store.SelectFile(second)
	if got := store.State().File; got == nil || got.Name != "b.jpg" {
		t.Fatalf("expected b.jpg selected, got %+v", got)
	}

	first.Name = "changed.jpg"
	if store.State().File.Name != "b.jpg" {
		t.Fatalf("selection must not alias caller values")
	}

	store.SelectFile(nil)
	if store.State().File != nil {
		t.Fatalf("expected selection cleared")
	}
}

func TestStoreNotifiesListenersInOrder(t *testing.T) {
	store := NewStore()
	var kinds []domain.OutcomeKind
	var versions []uint64
	store.Subscribe(func(prev, next State) {
		if next.Version != prev.Version+1 {
			t.Errorf("expected consecutive versions, got %d -> %d", prev.Version, next.Version)
		}
		kinds = append(kinds, next.Outcome.Kind)
		versions = append(versions, next.Version)
	})

	store.SetOutcome(domain.Loading())
	store.SetOutcome(domain.Failure("boom"))

	if len(kinds) != 2 || kinds[0] != domain.OutcomeLoading || kinds[1] != domain.OutcomeFailure {
		t.Fatalf("unexpected notifications: %v", kinds)
	}
	if versions[0] != 1 || versions[1] != 2 {
		t.Fatalf("unexpected versions: %v", versions)
	}
}

func TestStoreSurveyOperations(t *testing.T) {
	store := NewStore()
	store.Set(domain.FieldBudget, domain.BudgetHigh)
	store.Toggle(domain.FieldStyleGoals, "Low maintenance")
	state := store.Toggle(domain.FieldColorPrefs, "Navy")

	if state.Survey.Budget != domain.BudgetHigh {
		t.Fatalf("expected budget high, got %q", state.Survey.Budget)
	}
	if !state.Survey.Has(domain.FieldStyleGoals, "Low maintenance") || !state.Survey.Has(domain.FieldColorPrefs, "Navy") {
		t.Fatalf("unexpected survey: %+v", state.Survey)
	}
	if state.Outcome.Kind != domain.OutcomeIdle {
		t.Fatalf("survey edits must not touch the outcome, got %s", state.Outcome.Kind)
	}
}
