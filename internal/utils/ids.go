package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGen assigns identifiers to new records.
type IDGen interface {
	New() (string, error)
}

// ULIDGen issues time-ordered ids. Monotonic within the same millisecond.
type ULIDGen struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGen() *ULIDGen {
	return &ULIDGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGen) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// UUIDGen issues random version 4 UUIDs.
type UUIDGen struct{}

func (UUIDGen) New() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
