// Package session serializes turns per conversation key. Two near-simultaneous
// messages from the same sender must not interleave their load-modify-save of
// the session, or one turn's stored fields are lost.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/logging"
	"github.com/eiescz/idiomasbot/internal/ports"
)

// lockEntry pairs the per-key mutex with its reference count so idle entries
// can be garbage collected.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager guards session access. Process-local mutual exclusion is always on;
// an optional distributed locker extends it across replicas.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger sets the logger for deferred unlock errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given session store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock runs fn while holding the conversation's lock. The lock covers
// only the load-modify-save window; callers must not perform outbound network
// sends inside fn.
func (m *Manager) WithLock(ctx context.Context, conversation string, fn func(context.Context) error) error {
	entry := m.acquire(conversation)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(conversation)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, conversation, m.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire conversation lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release conversation lock, TTL will expire it",
					"conversation", conversation, "err", err)
			}
		}()
	}

	return fn(ctx)
}

// LoadOrCreate returns the stored session for the conversation, creating an
// idle one on first contact. Stores report an unreadable stored session as
// domain.ErrSessionNotFound, so a corrupt payload restarts the conversation
// at idle instead of failing the turn. Callers must hold the conversation's
// lock via WithLock.
func (m *Manager) LoadOrCreate(ctx context.Context, conversation string) (*domain.Session, error) {
	s, err := m.store.Load(ctx, conversation)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s = domain.NewSession()
	if err := m.store.Save(ctx, conversation, s); err != nil {
		return nil, fmt.Errorf("initialize session: %w", err)
	}
	return s, nil
}

// Save persists the session. Callers must hold the conversation's lock.
func (m *Manager) Save(ctx context.Context, conversation string, s *domain.Session) error {
	return m.store.Save(ctx, conversation, s)
}
