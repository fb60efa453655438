package cmd

import (
	"fmt"

	"github.com/Affo25/imsdashboard/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqlDriverName maps the configured database driver to its database/sql name.
func sqlDriverName(cfg internal.DatabaseConfig) string {
	if cfg.DriverName() == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// gooseDialect maps the configured database driver to a goose dialect.
func gooseDialect(cfg internal.DatabaseConfig) string {
	if cfg.DriverName() == internal.DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// initDB opens the shared connection pool and verifies it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	driver := sqlDriverName(cfg)

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// openGorm layers gorm over the existing pool so both share one set of connections.
func openGorm(cfg internal.DatabaseConfig, db *sqlx.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DriverName() == internal.DriverSQLite {
		dialector = sqlite.Dialector{DriverName: "sqlite3", Conn: db.DB}
	} else {
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, nil
}
