package di

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-markitup/internal/runtimeconfig"
)

// OpenDatabase opens a bun.DB for the configured SQL driver. SQLite uses
// mattn/go-sqlite3 and Postgres goes through the pgx stdlib driver.
func OpenDatabase(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	probe := runtimeconfig.Config{Storage: cfg}
	driver := probe.StorageDriver()

	var (
		sqlDriver string
		dialect   schema.Dialect
	)
	switch driver {
	case runtimeconfig.DriverSQLite:
		sqlDriver, dialect = "sqlite3", sqlitedialect.New()
	case runtimeconfig.DriverPostgres:
		sqlDriver, dialect = "pgx", pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}

	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDSNRequired, driver)
	}

	sqlDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("markitup storage: open %s: %w", driver, err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("markitup storage: ping %s: %w", driver, err)
	}

	db := bun.NewDB(sqlDB, dialect)
	if driver == runtimeconfig.DriverSQLite {
		// SQLite serialises writers; one connection keeps in-memory DSNs
		// pointing at the same database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
