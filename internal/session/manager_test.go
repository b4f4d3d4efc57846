package session_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/adapters/memory"
	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/ports"
	"github.com/eiescz/idiomasbot/internal/session"
)

func TestLoadOrCreate_FirstContact(t *testing.T) {
	store := memory.New()
	m := session.NewManager(store)

	sess, err := m.LoadOrCreate(context.Background(), "59170000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, sess.State)

	// The fresh session was persisted, not just returned.
	stored, err := store.Load(context.Background(), "59170000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, stored.State)
}

func TestLoadOrCreate_ExistingSessionSurvives(t *testing.T) {
	store := memory.New()
	m := session.NewManager(store)

	require.NoError(t, store.Save(context.Background(), "key", &domain.Session{State: domain.StateEnrollCollectName}))

	sess, err := m.LoadOrCreate(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnrollCollectName, sess.State)
}

func TestLoadOrCreate_UnreadablePayloadRestartsIdle(t *testing.T) {
	store := &stubStore{
		loadErr: fmt.Errorf("%w: unreadable payload", domain.ErrSessionNotFound),
		saved:   make(map[string]*domain.Session),
	}
	m := session.NewManager(store)

	sess, err := m.LoadOrCreate(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, sess.State)
}

func TestLoadOrCreate_StoreOutagePropagates(t *testing.T) {
	store := &stubStore{loadErr: errors.New("connection refused")}
	m := session.NewManager(store)

	_, err := m.LoadOrCreate(context.Background(), "key")
	assert.Error(t, err)
}

// Concurrent turns on one key must serialize their load-modify-save windows:
// every increment lands.
func TestWithLock_SerializesPerKey(t *testing.T) {
	store := memory.New()
	m := session.NewManager(store)
	ctx := context.Background()

	const turns = 64
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "key", func(ctx context.Context) error {
				sess, err := m.LoadOrCreate(ctx, "key")
				if err != nil {
					return err
				}
				n, _ := strconv.Atoi(sess.LastText)
				sess.LastText = strconv.Itoa(n + 1)
				return m.Save(ctx, "key", sess)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := store.Load(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(turns), sess.LastText)
}

func TestWithLock_IndependentKeysDoNotBlock(t *testing.T) {
	m := session.NewManager(memory.New())
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "a", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "b", func(ctx context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on key a blocked key b")
	}
}

func TestWithLock_UsesDistributedLocker(t *testing.T) {
	locker := &stubLocker{}
	m := session.NewManager(memory.New(), session.WithLocker(locker))

	err := m.WithLock(context.Background(), "key", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, locker.locked)
	assert.Equal(t, 1, locker.unlocked)
}

func TestWithLock_LockerFailureAbortsTurn(t *testing.T) {
	locker := &stubLocker{err: errors.New("lock timeout")}
	m := session.NewManager(memory.New(), session.WithLocker(locker))

	ran := false
	err := m.WithLock(context.Background(), "key", func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, ran)
}

type stubStore struct {
	loadErr error
	saved   map[string]*domain.Session
}

func (s *stubStore) Load(ctx context.Context, conversation string) (*domain.Session, error) {
	return nil, s.loadErr
}

func (s *stubStore) Save(ctx context.Context, conversation string, sess *domain.Session) error {
	if s.saved != nil {
		s.saved[conversation] = sess
	}
	return nil
}

type stubLocker struct {
	err      error
	locked   int
	unlocked int
}

func (l *stubLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked++
	return func(ctx context.Context) error {
		l.unlocked++
		return nil
	}, nil
}
