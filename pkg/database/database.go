package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

// Dialect identifies the SQL flavour behind a DB
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB is a database/sql handle plus the dialect needed to build queries for it
type DB struct {
	*sql.DB
	Dialect Dialect
	closeFn func()
}

// Open connects to the configured SQL backend. The memory driver has no SQL handle.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case "postgres":
		db, closeFn, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &DB{DB: db, Dialect: DialectPostgres, closeFn: closeFn}, nil
	case "sqlite":
		db, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &DB{DB: db, Dialect: DialectSQLite}, nil
	default:
		return nil, fmt.Errorf("driver %q has no SQL backend", cfg.Driver)
	}
}

// Wrap adapts an existing *sql.DB, used by tests with sqlmock
func Wrap(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Close closes the handle and any underlying pool
func (d *DB) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	err := d.DB.Close()
	if d.closeFn != nil {
		d.closeFn()
	}
	return err
}

// Rebind rewrites '?' placeholders into the dialect's form
func (d *DB) Rebind(query string) string {
	return Rebind(d.Dialect, query)
}

// Rebind rewrites '?' placeholders into $1..$n for PostgreSQL
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
