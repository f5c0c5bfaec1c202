package db

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func newMigrator() (*migrate.Migrate, error) {
	if DB == nil {
		return nil, errors.New("database is not initialized")
	}
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded migrations")
	}
	driver, err := pgx.WithInstance(DB.DB, &pgx.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrator")
	}
	return m, nil
}

// MigrateUp applies every pending migration
func MigrateUp() error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}
	version, dirty, _ := m.Version()
	log.Infof("✅ MigrateUp: schema at version %d (dirty=%v)", version, dirty)
	return nil
}

// MigrateDown rolls back the given number of migrations
func MigrateDown(steps int) error {
	if steps < 1 {
		return errors.Errorf("steps must be at least 1, got %d", steps)
	}
	m, err := newMigrator()
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to roll back migrations")
	}
	log.Infof("✅ MigrateDown: rolled back %d migration(s)", steps)
	return nil
}
