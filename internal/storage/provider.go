package storage

import (
	"context"
	"fmt"

	"equipment-logbook/internal/config"
	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/utils"
)

// Provider is the persistence boundary of the logbook. Missing records are
// reported as lending.ErrNotFound; every other failure is returned wrapped.
type Provider interface {
	Close() error
	Ping(ctx context.Context) error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Log entries, listed newest borrow date first.
	ListLogs(ctx context.Context) ([]lending.LogEntry, error)
	GetLog(ctx context.Context, id string) (lending.LogEntry, error)
	UpdateLog(ctx context.Context, id string, patch lending.Patch) error
	DeleteLog(ctx context.Context, id string) error
	// ApplyLogBatch stores all creates and updates or none of them. Created
	// entries are returned with their assigned ids.
	ApplyLogBatch(ctx context.Context, batch LogBatch) ([]lending.LogEntry, error)

	// Equipment catalog, listed by name.
	ListEquipment(ctx context.Context) ([]lending.EquipmentItem, error)
	GetEquipment(ctx context.Context, id string) (lending.EquipmentItem, error)
	CreateEquipment(ctx context.Context, item lending.EquipmentItem) (lending.EquipmentItem, error)
	UpdateEquipment(ctx context.Context, item lending.EquipmentItem) error
	DeleteEquipment(ctx context.Context, id string) error

	// Collaterals, listed by name.
	ListCollaterals(ctx context.Context) ([]lending.CollateralItem, error)
	GetCollateral(ctx context.Context, id string) (lending.CollateralItem, error)
	CreateCollateral(ctx context.Context, item lending.CollateralItem) (lending.CollateralItem, error)
	UpdateCollateral(ctx context.Context, item lending.CollateralItem) error
	DeleteCollateral(ctx context.Context, id string) error

	// Admin registry, listed by username.
	ListAdmins(ctx context.Context) ([]lending.AdminUser, error)
	GetAdminByUsername(ctx context.Context, username string) (lending.AdminUser, error)
	CreateAdmin(ctx context.Context, admin lending.AdminUser) (lending.AdminUser, error)
	UpdateAdminPassword(ctx context.Context, id string, passwordHash string) error
	DeleteAdmin(ctx context.Context, id string) error
}

// NewProvider opens the configured database and migrates it to the latest schema.
func NewProvider(ctx context.Context, cfg *config.Storage) (Provider, error) {
	var (
		provider *SQLProvider
		err      error
	)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		if cfg.SQLite == nil || cfg.SQLite.Path == "" {
			return nil, fmt.Errorf("%w: storage.sqlite.path is required", utils.ErrInvalidStorageProvider)
		}
		provider, err = NewSQLiteProvider(cfg.SQLite)
	case config.DriverPostgres:
		if cfg.Postgres == nil || cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("%w: storage.postgres.dsn is required", utils.ErrInvalidStorageProvider)
		}
		provider, err = NewPostgresProvider(cfg.Postgres)
	case config.DriverMySQL:
		if cfg.MySQL == nil || cfg.MySQL.DSN == "" {
			return nil, fmt.Errorf("%w: storage.mysql.dsn is required", utils.ErrInvalidStorageProvider)
		}
		provider, err = NewMySQLProvider(cfg.MySQL)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", utils.ErrInvalidStorageProvider, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := provider.Ping(ctx); err != nil {
		provider.Close()
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageProviderNotFound, err)
	}
	if err := provider.runMigrations(ctx); err != nil {
		provider.Close()
		return nil, err
	}
	return provider, nil
}
