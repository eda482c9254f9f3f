package nonce

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps session nonces in process. Sessions do not survive a
// restart; use the SQL store when they should.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]time.Time // nonce -> expiry
	now      func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]time.Time),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (m *MemoryStore) Put(_ context.Context, nonce string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be > 0")
	}
	m.mu.Lock()
	m.sessions[nonce] = m.now().Add(ttl)
	m.mu.Unlock()
	return nil
}

// Consume ends a session. An unknown or expired nonce is reported as an error.
func (m *MemoryStore) Consume(_ context.Context, nonce string) (bool, error) {
	m.mu.Lock()
	expiry, ok := m.sessions[nonce]
	delete(m.sessions, nonce)
	m.mu.Unlock()

	switch {
	case !ok:
		return false, &NonceMissingError{Nonce: nonce}
	case m.now().After(expiry):
		return false, &NonceExpiredError{Nonce: nonce, Expiry: expiry}
	}
	return true, nil
}

func (m *MemoryStore) Exists(_ context.Context, nonce string) bool {
	m.mu.RLock()
	expiry, ok := m.sessions[nonce]
	m.mu.RUnlock()
	return ok && !m.now().After(expiry)
}

// Len reports how many sessions are held, expired ones included until the
// janitor runs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) ExpireNonces(_ context.Context) error {
	now := m.now()
	pruned := 0

	m.mu.Lock()
	for nonce, expiry := range m.sessions {
		if now.After(expiry) {
			delete(m.sessions, nonce)
			pruned++
		}
	}
	m.mu.Unlock()

	if pruned > 0 {
		slog.Debug("Pruned expired sessions", "count", pruned)
	}
	return nil
}

func (m *MemoryStore) Close() {
	m.once.Do(func() { close(m.stop) })
}
