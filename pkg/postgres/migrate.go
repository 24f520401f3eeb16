package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies all pending schema migrations from sourceURL (a
// "file://" directory of numbered up/down SQL files). Running against an
// already up-to-date schema is not an error, so the service can run this
// unconditionally at startup.
func RunMigrations(dsn string, sourceURL string) error {
	return step(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Up() })
}

// RunMigrationsDown rolls back every applied migration. Intended for test
// databases and local resets, not production schemas.
func RunMigrationsDown(dsn string, sourceURL string) error {
	return step(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Down() })
}

func step(dsn, sourceURL string, op func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := op(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
