package nonce

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"equipment-logbook/internal/storage"
)

// Number of random bytes. 16 → 128‑bit
const NONCE_SIZE = 16

type NonceStoreType string

// Supported nonce stores.
const (
	Memory NonceStoreType = "memory"
	SQL    NonceStoreType = "sql"
)

type NonceMissingError struct {
	Nonce string
}

// Error implements the error interface.
func (e *NonceMissingError) Error() string {
	return fmt.Sprintf("nonce not found: %s", e.Nonce)
}

type NonceExpiredError struct {
	Nonce  string
	Expiry time.Time
}

// Error implements the error interface.
func (e *NonceExpiredError) Error() string {
	return fmt.Sprintf("nonce expired: %s (expiry: %s)", e.Nonce, e.Expiry)
}

type NonceStoreInterface interface {
	// stores a nonce with a TTL.
	Put(ctx context.Context, nonce string, ttl time.Duration) error
	// verifies and deletes the nonce.
	// Returns true if the nonce existed (valid request), false otherwise.
	Consume(ctx context.Context, nonce string) (bool, error)

	Exists(ctx context.Context, nonce string) bool

	ExpireNonces(ctx context.Context) error

	// Close stops the janitor.
	Close()
}

func generateNonceToken() (string, error) {
	b := make([]byte, NONCE_SIZE)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New creates a nonce, stores it with ttl and returns it.
func New(ctx context.Context, store NonceStoreInterface, ttl time.Duration) (string, error) {
	nonce, err := generateNonceToken()
	if err != nil {
		return "", err
	}
	if err := store.Put(ctx, nonce, ttl); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return nonce, nil
}

// NewStore builds the store of the given type and starts its janitor.
// The SQL store needs a provider that also implements storage.NonceProvider.
func NewStore(kind NonceStoreType, provider storage.Provider, janitorInterval time.Duration) (NonceStoreInterface, error) {
	var store NonceStoreInterface
	switch kind {
	case Memory, "":
		store = NewMemoryStore()
	case SQL:
		np, ok := provider.(storage.NonceProvider)
		if !ok {
			return nil, fmt.Errorf("storage provider %T cannot hold nonces", provider)
		}
		store = NewSQLNonceStore(np)
	default:
		return nil, fmt.Errorf("unknown store type %q", kind)
	}

	if janitorInterval > 0 {
		go janitor(store, janitorInterval, storeStop(store))
	}
	slog.Info("Initialized nonce store", "type", kind)
	return store, nil
}

func storeStop(store NonceStoreInterface) <-chan struct{} {
	switch s := store.(type) {
	case *MemoryStore:
		return s.stop
	case *SQLStore:
		return s.stop
	}
	return nil
}

// janitor periodically purges expired nonces until stop is closed.
func janitor(store NonceStoreInterface, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := store.ExpireNonces(context.Background()); err != nil {
				slog.Error("Failed to expire nonces", "error", err)
			}
		case <-stop:
			return
		}
	}
}
