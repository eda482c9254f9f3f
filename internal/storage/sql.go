package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/utils"
)

// SQLProvider implements Provider on top of sqlx. Queries are written with
// "?" placeholders and rebound for the active driver.
type SQLProvider struct {
	db     *sqlx.DB
	driver string

	logIDs      utils.IDGen
	registryIDs utils.IDGen

	logger *slog.Logger
}

func NewSQLProvider(driverName string, dataSource string) (*SQLProvider, error) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}
	return NewSQLProviderFromDB(db, driverName), nil
}

// NewSQLProviderFromDB wraps an already opened database.
func NewSQLProviderFromDB(db *sqlx.DB, driverName string) *SQLProvider {
	return &SQLProvider{
		db:          db,
		driver:      driverName,
		logIDs:      utils.NewULIDGen(),
		registryIDs: utils.UUIDGen{},
		logger:      slog.With("component", "storage", "driver", driverName),
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLProvider) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	return NewMigrationRunner(p.db, p.driver).CurrentVersion(ctx)
}

func (p *SQLProvider) runMigrations(ctx context.Context) error {
	return NewMigrationRunner(p.db, p.driver).Migrate(ctx, -1)
}

func (p *SQLProvider) q(query string) string {
	return p.db.Rebind(query)
}

// get maps sql.ErrNoRows to lending.ErrNotFound.
func (p *SQLProvider) get(ctx context.Context, dest any, query string, args ...any) error {
	err := p.db.GetContext(ctx, dest, p.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return lending.ErrNotFound
	}
	return err
}

// exec runs a statement that must touch exactly one existing row.
func (p *SQLProvider) exec(ctx context.Context, ex sqlx.ExecerContext, query string, args ...any) error {
	res, err := ex.ExecContext(ctx, p.q(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lending.ErrNotFound
	}
	return nil
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (p *SQLProvider) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}
