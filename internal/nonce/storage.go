package nonce

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"equipment-logbook/internal/storage"
)

// SQLStore keeps session nonces in the nonces table so sessions survive a
// restart. Expired rows are treated as missing until the janitor prunes them.
type SQLStore struct {
	logger *slog.Logger
	db     storage.NonceProvider
	now    func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewSQLNonceStore(provider storage.NonceProvider) *SQLStore {
	return &SQLStore{
		logger: slog.With("component", "nonce.sql"),
		db:     provider,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

func (s *SQLStore) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	return s.db.CreateNonce(ctx, nonce, s.now().Add(ttl))
}

func (s *SQLStore) Consume(ctx context.Context, nonce string) (bool, error) {
	found, err := s.db.ConsumeNonce(ctx, nonce, s.now())
	switch {
	case err != nil:
		return false, err
	case !found:
		return false, &NonceMissingError{Nonce: nonce}
	}
	return true, nil
}

func (s *SQLStore) Exists(ctx context.Context, nonce string) bool {
	found, err := s.db.ExistsNonce(ctx, nonce, s.now())
	if err != nil {
		s.logger.Error("Nonce lookup failed", "error", err)
		return false
	}
	return found
}

func (s *SQLStore) ExpireNonces(ctx context.Context) error {
	n, err := s.db.ExpireNonces(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Debug("Pruned expired sessions", "count", n)
	}
	return nil
}

func (s *SQLStore) Close() {
	s.once.Do(func() { close(s.stop) })
}
