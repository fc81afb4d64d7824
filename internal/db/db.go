package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"  // Register postgres driver
	_ "modernc.org/sqlite" // Register sqlite driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// OpenSQLite opens (and creates if needed) the database file at path and pings it.
// Every pooled connection runs in WAL mode with a busy timeout so concurrent writers
// queue instead of failing immediately.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// SQLiteDSN turns a plain file path into a driver DSN with the pragmas we rely on.
// Values already in "file:" form are returned untouched.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// openDB opens a database connection without pinging.
func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == DriverSQLite {
		dsn = SQLiteDSN(dsn)
	}
	return sql.Open(driver, dsn)
}
