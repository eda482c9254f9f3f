package lending

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNotConfirmed = errors.New("operation not confirmed")
)

// ValidationError rejects input before any write. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PreconditionError rejects an operation the current state does not allow.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// StoreFailure wraps a persistence failure with the operation that issued it.
type StoreFailure struct {
	Op  string
	Err error
}

func (e *StoreFailure) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreFailure) Unwrap() error {
	return e.Err
}

// WrapStore returns nil for a nil err. ErrNotFound passes through unwrapped.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreFailure{Op: op, Err: err}
}
