package session

import "github.com/kirillkom/style-sage/internal/core/domain"

// State is the whole client state. It is a value: Update returns a new State
// and never modifies the one passed in.
type State struct {
	Survey  domain.Survey
	File    *domain.SelectedFile
	Outcome domain.Outcome
	Version uint64
}

func NewState() State {
	return State{
		Survey:  domain.DefaultSurvey(),
		Outcome: domain.Idle(),
	}
}

// Action is one user or controller event applied by Update.
type Action interface {
	apply(State) State
}

type SetField struct {
	Field domain.Field
	Value string
}

func (a SetField) apply(s State) State {
	s.Survey = s.Survey.Set(a.Field, a.Value)
	return s
}

type ToggleField struct {
	Field domain.MultiField
	Value string
}

func (a ToggleField) apply(s State) State {
	s.Survey = s.Survey.Toggle(a.Field, a.Value)
	return s
}

// SelectFile replaces the current selection; a nil File clears it.
type SelectFile struct {
	File *domain.SelectedFile
}

func (a SelectFile) apply(s State) State {
	if a.File == nil {
		s.File = nil
		return s
	}
	file := *a.File
	s.File = &file
	return s
}

type SetOutcome struct {
	Outcome domain.Outcome
}

func (a SetOutcome) apply(s State) State {
	s.Outcome = a.Outcome
	return s
}

func Update(s State, action Action) State {
	next := action.apply(s)
	next.Version = s.Version + 1
	return next
}
