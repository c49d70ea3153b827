package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Schema describes the rule database after Up.
type Schema struct {
	Version uint
	Dirty   bool
	// Changed is false when nothing was pending.
	Changed bool
}

func (s Schema) String() string {
	state := "up to date"
	if s.Changed {
		state = "migrated"
	}
	if s.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("version %d (%s)", s.Version, state)
}

// Up brings the rule database schema to the newest migration in dir.
func Up(db *gorm.DB, dir string, logger *slog.Logger) (Schema, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return Schema{}, fmt.Errorf("sql handle: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "lb_schema_migrations"})
	if err != nil {
		return Schema{}, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return Schema{}, fmt.Errorf("migration source %s: %w", dir, err)
	}

	var schema Schema
	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return Schema{}, fmt.Errorf("apply migrations: %w", err)
	default:
		schema.Changed = true
	}

	schema.Version, schema.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Schema{}, fmt.Errorf("schema version: %w", err)
	}

	logger.Info("rule database schema", "version", schema.Version, "dirty", schema.Dirty, "changed", schema.Changed)
	return schema, nil
}
