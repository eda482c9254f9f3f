package email

import (
	"errors"
	"strings"
)

var (
	ErrMissingAddress = errors.New("email address is required")
	ErrInvalidAddress = errors.New("invalid email address")
)

// ValidAddress is a basic format check: a local part, "@" and a domain.
func ValidAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrMissingAddress
	}

	at := strings.LastIndex(address, "@")
	if at < 1 || at == len(address)-1 || strings.ContainsAny(address, " \t\r\n") {
		return ErrInvalidAddress
	}
	return nil
}
