// Package storage provides the SQL backed stores and an embedded-file based
// schema migration system.
//
// Migration SQL files are embedded via embed.FS under the "migrations"
// directory, one subdirectory per driver (sqlite3, postgres, mysql).
//
// Migration file naming and format
//   - Filenames must match the pattern: NNNN_name.up.sql or NNNN_name.down.sql
//     (regex: ^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$).
//   - Version is a four-digit integer (e.g. 0001, 0002).
//   - Direction is either "up" (apply) or "down" (rollback).
//   - Statements are separated by a semicolon at the end of a line.
//
// Applied versions are recorded in the schema_migrations table.

// Heavily influenced by Authelia's migration system https://github.com/authelia/authelia/blob/master/internal/storage/migrations.go

package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/**/*.sql
var migrationsFS embed.FS

var reMigrationFilename = regexp.MustCompile(`^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$`)

var (
	ErrMigrateCurrentVersionSameAsTarget = errors.New("current version is the same as target version")
)

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL
)`

// SchemaMigration represents a single database migration
type SchemaMigration struct {
	Version int
	Name    string
	Up      bool
	SQL     string
}

func (m *SchemaMigration) Before() int {
	if m.Up {
		return m.Version - 1
	}
	return m.Version
}

func (m *SchemaMigration) After() int {
	if m.Up {
		return m.Version
	}
	return m.Version - 1
}

// Statements splits the migration into individually executable statements.
func (m *SchemaMigration) Statements() []string {
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(m.SQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			out = append(out, strings.TrimSuffix(strings.TrimSpace(cur.String()), ";"))
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

// MigrationRunner handles database migrations
type MigrationRunner struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sqlx.DB, driver string) *MigrationRunner {
	logger := slog.With("component", "migrations", "driver", driver)

	return &MigrationRunner{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

func (mr *MigrationRunner) dirPath() (string, error) {
	switch mr.driver {
	case "sqlite3", "postgres", "mysql":
		return "migrations/" + mr.driver, nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", mr.driver)
	}
}

// GetLatestMigrationVersion scans migration files and returns the highest version number
func (mr *MigrationRunner) GetLatestMigrationVersion() (int, error) {
	dirPath, err := mr.dirPath()
	if err != nil {
		return -1, err
	}

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return -1, fmt.Errorf("failed to read migration directory: %w", err)
	}

	latestVersion := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migration, err := mr.parseMigrationFile(path.Join(dirPath, entry.Name()))
		if err != nil {
			continue
		}

		// Only consider "up" migrations
		if !migration.Up {
			continue
		}

		if migration.Version > latestVersion {
			latestVersion = migration.Version
		}
	}

	return latestVersion, nil
}

// LoadMigrations loads migrations from embedded filesystem
// If the target version is -1 this indicates the latest version. If the target version is 0 this indicates the database zero state.
func (mr *MigrationRunner) LoadMigrations(prior int, target int) ([]SchemaMigration, error) {
	// Resolve -1 to latest version
	if target == -1 {
		latestVersion, err := mr.GetLatestMigrationVersion()
		if err != nil {
			return nil, fmt.Errorf("failed to get latest migration version: %w", err)
		}
		target = latestVersion
		mr.logger.Debug("Target version set to latest", "version", target)
	}

	if prior == target {
		return nil, ErrMigrateCurrentVersionSameAsTarget
	}

	dirPath, err := mr.dirPath()
	if err != nil {
		return nil, err
	}

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var migrations []SchemaMigration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		migration, err := mr.parseMigrationFile(path.Join(dirPath, filename))
		if err != nil {
			mr.logger.Warn("Failed to parse migration file", "file", filename, "error", err)
			continue
		}

		if mr.skipMigration(migration, prior, target) {
			mr.logger.Debug("Skipping migration", "version", migration.Version, "name", migration.Name, "up", migration.Up)
			continue
		}

		migrations = append(migrations, migration)
	}

	if prior < target {
		sort.Slice(migrations, func(i, j int) bool {
			return migrations[i].Version < migrations[j].Version
		})
	} else {
		sort.Slice(migrations, func(i, j int) bool {
			return migrations[i].Version > migrations[j].Version
		})
	}

	mr.logger.Info("Loaded migrations", "count", len(migrations), "from_version", prior, "to_version", target)
	return migrations, nil
}

func (mr *MigrationRunner) skipMigration(migration SchemaMigration, currentVersion int, targetVersion int) bool {
	doUp := targetVersion == -1 || targetVersion > currentVersion
	if doUp {
		// Skip if not up migration
		if !migration.Up {
			return true
		}

		// Skip if the migration version is greater than the target or less than or equal to the previous version.
		if migration.Version > targetVersion || migration.Version <= currentVersion {
			return true
		}
	} else {
		if migration.Up {
			return true
		}

		// Skip the migration if we want to go down and the migration version is less than or equal to the target
		// or greater than the previous version.
		if migration.Version <= targetVersion || migration.Version > currentVersion {
			return true
		}
	}

	return false
}

// parseMigrationFile parses a migration filename and reads its content
// Expected format: NNNN_description.up.sql or NNNN_description.down.sql
func (mr *MigrationRunner) parseMigrationFile(filePath string) (SchemaMigration, error) {
	filename := path.Base(filePath)
	filenameParts := reMigrationFilename.FindStringSubmatch(filename)
	if filenameParts == nil {
		return SchemaMigration{}, fmt.Errorf("invalid migration filename: %s", filename)
	}

	sql, err := migrationsFS.ReadFile(filePath)
	if err != nil {
		return SchemaMigration{}, fmt.Errorf("failed to read migration file: %w", err)
	}

	version, _ := strconv.Atoi(filenameParts[reMigrationFilename.SubexpIndex("Version")])
	migration := SchemaMigration{
		Version: version,
		Name:    filenameParts[reMigrationFilename.SubexpIndex("Name")],
		Up:      filenameParts[reMigrationFilename.SubexpIndex("Direction")] == "up",
		SQL:     string(sql),
	}

	return migration, nil
}

// CurrentVersion returns the highest applied version, 0 for an empty database.
func (mr *MigrationRunner) CurrentVersion(ctx context.Context) (int, error) {
	if _, err := mr.db.ExecContext(ctx, createSchemaMigrations); err != nil {
		return -1, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	var version int
	if err := mr.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return -1, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrate moves the schema to target. -1 means the latest version.
// Each migration runs in its own transaction together with its bookkeeping row.
func (mr *MigrationRunner) Migrate(ctx context.Context, target int) error {
	current, err := mr.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	migrations, err := mr.LoadMigrations(current, target)
	if errors.Is(err, ErrMigrateCurrentVersionSameAsTarget) {
		mr.logger.Debug("Schema is up to date", "version", current)
		return nil
	}
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if err := mr.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %04d_%s failed: %w", m.Version, m.Name, err)
		}
		mr.logger.Info("Applied migration", "version", m.Version, "name", m.Name, "up", m.Up)
	}
	return nil
}

func (mr *MigrationRunner) apply(ctx context.Context, m SchemaMigration) error {
	tx, err := mr.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if m.Up {
		_, err = tx.ExecContext(ctx, mr.db.Rebind("INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)"),
			m.Version, m.Name, time.Now().UTC())
	} else {
		_, err = tx.ExecContext(ctx, mr.db.Rebind("DELETE FROM schema_migrations WHERE version = ?"), m.Version)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}
