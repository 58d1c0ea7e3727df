package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutzones/pkg"
)

// RunMigrations applies all pending migrations found in migrationsPath.
func RunMigrations(dsn, migrationsPath string) error {
	exists, err := pkg.PathExists(migrationsPath, true)
	if err != nil {
		return fmt.Errorf("check migrations path: %w", err)
	}
	if !exists {
		return fmt.Errorf("migrations path not found: %s", migrationsPath)
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warnf("close migrator: source: %v, db: %v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debugln("db migrations: no change")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	log.Infof("db migrated to version %d (dirty: %t)", version, dirty)
	return nil
}
