package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NonceProvider persists session nonces so logins survive restarts and are
// shared between processes using the same database.
type NonceProvider interface {
	CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error
	ExistsNonce(ctx context.Context, nonce string, now time.Time) (bool, error)
	ConsumeNonce(ctx context.Context, nonce string, now time.Time) (bool, error)
	ExpireNonces(ctx context.Context, now time.Time) (int64, error)
}

func (p *SQLProvider) CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx, p.q("INSERT INTO nonces (nonce, expires_at) VALUES (?, ?)"), nonce, expiresAt.UTC())
	return err
}

func (p *SQLProvider) ExistsNonce(ctx context.Context, nonce string, now time.Time) (bool, error) {
	var one int
	err := p.db.GetContext(ctx, &one, p.q("SELECT 1 FROM nonces WHERE nonce = ? AND expires_at > ?"), nonce, now.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ConsumeNonce deletes the nonce and reports whether a live one existed.
func (p *SQLProvider) ConsumeNonce(ctx context.Context, nonce string, now time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, p.q("DELETE FROM nonces WHERE nonce = ? AND expires_at > ?"), nonce, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (p *SQLProvider) ExpireNonces(ctx context.Context, now time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, p.q("DELETE FROM nonces WHERE expires_at <= ?"), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
