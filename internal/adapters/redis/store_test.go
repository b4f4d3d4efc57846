package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/eiescz/idiomasbot/internal/adapters/redis"
	"github.com/eiescz/idiomasbot/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_RoundTrip(t *testing.T) {
	_, client := newClient(t)
	store := redisadapter.NewFromClient(client)
	ctx := context.Background()

	when := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)
	in := &domain.Session{
		State:       domain.StateReserveConfirm,
		Reservation: &domain.ReservationDraft{Name: "Maria Rojas", When: &when},
		LastText:    "mañana 9",
		LastIntent:  "reservar",
	}
	require.NoError(t, store.Save(ctx, "59170000001", in))

	out, err := store.Load(ctx, "59170000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StateReserveConfirm, out.State)
	require.NotNil(t, out.Reservation)
	assert.Equal(t, "Maria Rojas", out.Reservation.Name)
	assert.True(t, when.Equal(*out.Reservation.When))
	assert.Equal(t, "mañana 9", out.LastText)
}

func TestStore_MissingSession(t *testing.T) {
	_, client := newClient(t)
	store := redisadapter.NewFromClient(client)

	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// A corrupt stored payload reports not-found so the conversation restarts at
// idle instead of failing every turn.
func TestStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)
	store := redisadapter.NewFromClient(client)

	require.NoError(t, mr.Set("idiomasbot:session:59170000001", "{not json"))

	_, err := store.Load(context.Background(), "59170000001")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_TTL(t *testing.T) {
	mr, client := newClient(t)
	store := redisadapter.NewFromClient(client, redisadapter.WithTTL(time.Hour))

	require.NoError(t, store.Save(context.Background(), "key", domain.NewSession()))
	assert.Equal(t, time.Hour, mr.TTL("idiomasbot:session:key"))
}

func TestStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redisadapter.NewFromClient(client, redisadapter.WithPrefix("bot:s:"))

	require.NoError(t, store.Save(context.Background(), "key", domain.NewSession()))
	assert.True(t, mr.Exists("bot:s:key"))
}

func TestStore_LoadBackendError(t *testing.T) {
	mr, client := newClient(t)
	store := redisadapter.NewFromClient(client)
	mr.Close()

	_, err := store.Load(context.Background(), "key")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrSessionNotFound))
}
