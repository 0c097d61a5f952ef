package session

import (
	"sync"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

// Listener observes a state transition. Listeners run one at a time in
// dispatch order and must not call Dispatch.
type Listener func(prev, next State)

// Store holds the current State and applies actions through Update.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []Listener

	notifyMu sync.Mutex
}

func NewStore() *Store {
	return &Store{state: NewState()}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Subscribe(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Store) Dispatch(action Action) State {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Update(prev, action)
	s.state = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(prev, next)
	}
	return next
}

func (s *Store) Set(field domain.Field, value string) State {
	return s.Dispatch(SetField{Field: field, Value: value})
}

func (s *Store) Toggle(field domain.MultiField, value string) State {
	return s.Dispatch(ToggleField{Field: field, Value: value})
}

func (s *Store) SelectFile(file *domain.SelectedFile) State {
	return s.Dispatch(SelectFile{File: file})
}

// SetOutcome implements ports.OutcomeSink.
func (s *Store) SetOutcome(outcome domain.Outcome) {
	s.Dispatch(SetOutcome{Outcome: outcome})
}
