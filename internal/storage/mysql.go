package storage

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"equipment-logbook/internal/config"
)

// NewMySQLProvider forces parseTime so DATETIME columns scan into time.Time,
// and clientFoundRows so an update that changes nothing still counts its row.
func NewMySQLProvider(cfg *config.ServerStorage) (*SQLProvider, error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.ClientFoundRows = true
	return NewSQLProvider(config.DriverMySQL, mc.FormatDSN())
}
