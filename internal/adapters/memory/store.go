// Package memory provides in-process stores for single-instance deployments
// and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/eiescz/idiomasbot/internal/domain"
)

// Store keeps sessions and records in process memory. Sessions round-trip
// through JSON so the serialization behavior matches the redis store.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string][]byte
	leads        []domain.Lead
	enrollments  []domain.Enrollment
	reservations []domain.Reservation
}

// New creates an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string][]byte)}
}

// Load implements ports.SessionStore.
func (s *Store) Load(ctx context.Context, conversation string) (*domain.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[conversation]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", conversation, domain.ErrSessionNotFound)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: unreadable payload", domain.ErrSessionNotFound)
	}
	return &sess, nil
}

// Save implements ports.SessionStore.
func (s *Store) Save(ctx context.Context, conversation string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	s.sessions[conversation] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) AppendLead(ctx context.Context, lead domain.Lead) error {
	s.mu.Lock()
	s.leads = append(s.leads, lead)
	s.mu.Unlock()
	return nil
}

func (s *Store) AppendEnrollment(ctx context.Context, e domain.Enrollment) error {
	s.mu.Lock()
	s.enrollments = append(s.enrollments, e)
	s.mu.Unlock()
	return nil
}

func (s *Store) AppendReservation(ctx context.Context, r domain.Reservation) error {
	s.mu.Lock()
	s.reservations = append(s.reservations, r)
	s.mu.Unlock()
	return nil
}

func (s *Store) Leads(ctx context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reversed(s.leads), nil
}

func (s *Store) Enrollments(ctx context.Context) ([]domain.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reversed(s.enrollments), nil
}

func (s *Store) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reversed(s.reservations), nil
}

// reversed copies the slice newest-first, matching the redis listing order.
func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
