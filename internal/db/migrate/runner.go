// Package migrate runs database migrations from embedded SQL files using golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"craftconnect/backend/internal/db"
)

// ErrNoChange is returned when Up/Down has nothing to do (already at target version).
var ErrNoChange = migrate.ErrNoChange

// open builds a migrator for dsn, picking the embedded directory that matches its driver.
func open(dsn string) (*migrate.Migrate, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	driver, err := db.DriverFor(dsn)
	if err != nil {
		return nil, err
	}
	var dir, url string
	switch driver {
	case db.DriverPostgres:
		// The pgx/v5 migrate driver expects the pgx5:// scheme.
		dir = "migrations/postgres"
		url = dsn
		if rest, ok := strings.CutPrefix(dsn, "postgres://"); ok {
			url = "pgx5://" + rest
		} else if rest, ok := strings.CutPrefix(dsn, "postgresql://"); ok {
			url = "pgx5://" + rest
		}
	case db.DriverSQLite:
		dir = "migrations/sqlite"
		url = dsn
	default:
		return nil, fmt.Errorf("migrations are not needed for the %s driver", driver)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, url)
	if err != nil {
		_ = sourceDriver.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}

// Run applies migrations in the given direction using the provided DSN (postgres:// or sqlite://).
// direction must be "up" or "down". Returns nil on success, including when already at the target version.
func Run(dsn string, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
	m, err := open(dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	}
	return nil
}

// Version reports the current schema version and whether the last migration left it dirty.
func Version(dsn string) (uint, bool, error) {
	m, err := open(dsn)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
