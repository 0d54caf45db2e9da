// File: internal/database/migrations.go
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	dbdriver "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	src "github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

type migrateInstance interface {
	Up() error
}

var (
	withInstanceFn         = withInstance
	iofsNewFn              = iofs.New
	migrateNewWithInstance = func(sourceName string, sourceDriver src.Driver, databaseName string, databaseDriver dbdriver.Driver) (migrateInstance, error) {
		m, err := migrate.NewWithInstance(sourceName, sourceDriver, databaseName, databaseDriver)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
)

// withInstance 依方言建立 migrate 的 database driver
func withInstance(sqlDB *sql.DB, d Dialect) (dbdriver.Driver, error) {
	switch d {
	case Postgres:
		return postgres.WithInstance(sqlDB, &postgres.Config{})
	case SQLite:
		return migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	case MySQL:
		return migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	}
	return nil, fmt.Errorf("no migration driver for dialect %q", d)
}

// RunMigrations 執行 migrations/<dialect> 下所有 up migration；已是最新版本時不算錯誤
func RunMigrations(sqlDB *sql.DB, d Dialect) error {
	driver, err := withInstanceFn(sqlDB, d)
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	sourceDriver, err := iofsNewFn(migrationsFS, "migrations/"+string(d))
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrateNewWithInstance("iofs", sourceDriver, string(d), driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}

	// 升級到最新版本
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
