package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/adapters/memory"
	"github.com/eiescz/idiomasbot/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	in := &domain.Session{
		State:      domain.StateEnrollCollectCourse,
		Enrollment: &domain.EnrollmentDraft{Identifier: "1234567", Name: "Juan Perez"},
		LastText:   "Juan Perez",
	}
	require.NoError(t, store.Save(ctx, "59170000001", in))

	out, err := store.Load(ctx, "59170000001")
	require.NoError(t, err)
	assert.Equal(t, in.State, out.State)
	require.NotNil(t, out.Enrollment)
	assert.Equal(t, "Juan Perez", out.Enrollment.Name)

	// The stored copy is independent of the caller's struct.
	in.Enrollment.Name = "changed"
	out, err = store.Load(ctx, "59170000001")
	require.NoError(t, err)
	assert.Equal(t, "Juan Perez", out.Enrollment.Name)
}

func TestSessionMissing(t *testing.T) {
	store := memory.New()
	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRecordsNewestFirst(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.AppendLead(ctx, domain.Lead{ID: "first"}))
	require.NoError(t, store.AppendLead(ctx, domain.Lead{ID: "second"}))
	require.NoError(t, store.AppendEnrollment(ctx, domain.Enrollment{ID: "e1"}))
	require.NoError(t, store.AppendReservation(ctx, domain.Reservation{ID: "r1"}))

	leads, err := store.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "second", leads[0].ID)

	enrollments, err := store.Enrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, enrollments, 1)

	reservations, err := store.Reservations(ctx)
	require.NoError(t, err)
	assert.Len(t, reservations, 1)
}
