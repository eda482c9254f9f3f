package storage

import (
	_ "github.com/lib/pq"

	"equipment-logbook/internal/config"
)

func NewPostgresProvider(cfg *config.ServerStorage) (*SQLProvider, error) {
	return NewSQLProvider(config.DriverPostgres, cfg.DSN)
}
