package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres database driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RequiredTables must exist once the schema is applied.
var RequiredTables = []string{"customers", "products", "invoices", "costs"}

// Migrate applies the schema. With MIGRATIONS enabled on postgres the embedded
// SQL migrations run through golang-migrate; otherwise gorm AutoMigrate is used
// (dev and sqlite convenience).
func Migrate(conn *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver != DriverSQLite {
		log.Info("running sql migrations")
		if err := RunSQLMigrations(ToURLDSN(NormalizeDSN(cfg.Database.DSN()))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		log.Info("running automigrate")
		if err := AutoMigrate(conn); err != nil {
			return err
		}
	}
	for _, table := range RequiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations executes the embedded migrations against a postgres URL.
func RunSQLMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
