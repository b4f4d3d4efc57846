package ports

import (
	"context"

	"github.com/eiescz/idiomasbot/internal/domain"
)

// SessionStore persists one session per conversation key.
type SessionStore interface {
	// Load retrieves the session for a conversation key.
	// Returns domain.ErrSessionNotFound if none exists yet.
	Load(ctx context.Context, conversation string) (*domain.Session, error)

	// Save overwrites the session for a conversation key.
	Save(ctx context.Context, conversation string, s *domain.Session) error
}

// RecordStore appends finalized business records. Every call creates exactly
// one new immutable record; there are no updates.
type RecordStore interface {
	AppendLead(ctx context.Context, lead domain.Lead) error
	AppendEnrollment(ctx context.Context, e domain.Enrollment) error
	AppendReservation(ctx context.Context, r domain.Reservation) error

	// Listing, newest first. Used by the CSV exports and the CLI report.
	Leads(ctx context.Context) ([]domain.Lead, error)
	Enrollments(ctx context.Context) ([]domain.Enrollment, error)
	Reservations(ctx context.Context) ([]domain.Reservation, error)
}
