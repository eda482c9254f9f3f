package storage

import (
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"equipment-logbook/internal/config"
)

// NewSQLiteProvider opens the database file, creating its directory if needed.
// ":memory:" and "file:" URIs are passed to the driver unchanged.
func NewSQLiteProvider(cfg *config.SQLiteStorage) (*SQLProvider, error) {
	memory := cfg.Path == ":memory:"
	dsn := cfg.Path
	if !memory && !strings.HasPrefix(cfg.Path, "file:") {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, err
		}
		dsn = "file:" + cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"
	}

	p, err := NewSQLProvider(config.DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	if memory {
		p.db.SetMaxOpenConns(1)
	}
	return p, nil
}
