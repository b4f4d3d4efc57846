package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/eiescz/idiomasbot/internal/domain"
)

// Records implements ports.RecordStore on Redis lists. Each record kind gets
// one list; appends LPUSH so listings come back newest first.
type Records struct {
	client *backend.Client
	prefix string
}

// NewRecords creates a record store over an existing client.
func NewRecords(client *backend.Client, prefix string) *Records {
	if prefix == "" {
		prefix = "idiomasbot:records:"
	}
	return &Records{client: client, prefix: prefix}
}

func (r *Records) push(ctx context.Context, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", kind, err)
	}
	if err := r.client.LPush(ctx, r.prefix+kind, data).Err(); err != nil {
		return fmt.Errorf("append %s record: %w", kind, err)
	}
	return nil
}

// AppendLead appends one lead record.
func (r *Records) AppendLead(ctx context.Context, lead domain.Lead) error {
	return r.push(ctx, "leads", lead)
}

// AppendEnrollment appends one finalized enrollment.
func (r *Records) AppendEnrollment(ctx context.Context, e domain.Enrollment) error {
	return r.push(ctx, "enrollments", e)
}

// AppendReservation appends one finalized reservation.
func (r *Records) AppendReservation(ctx context.Context, res domain.Reservation) error {
	return r.push(ctx, "reservations", res)
}

func list[T any](ctx context.Context, r *Records, kind string) ([]T, error) {
	vals, err := r.client.LRange(ctx, r.prefix+kind, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	out := make([]T, 0, len(vals))
	for _, raw := range vals {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			// Skip unreadable entries rather than failing the export.
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Leads returns all leads, newest first.
func (r *Records) Leads(ctx context.Context) ([]domain.Lead, error) {
	return list[domain.Lead](ctx, r, "leads")
}

// Enrollments returns all enrollments, newest first.
func (r *Records) Enrollments(ctx context.Context) ([]domain.Enrollment, error) {
	return list[domain.Enrollment](ctx, r, "enrollments")
}

// Reservations returns all reservations, newest first.
func (r *Records) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	return list[domain.Reservation](ctx, r, "reservations")
}
