package cmd

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/xo/dburl"

	"github.com/ardnew/stencil/log"
)

// memoryDSN opens a private in-memory SQLite database.
const memoryDSN = ":memory:"

// database is an open connection and the query parameter that binds the
// render context on it.
type database struct {
	*sql.DB

	placeholder string
}

// openDatabase connects to the database named by the URL dsn, such as
// "postgres://user@host/db" or "sqlite:/path/to/file.db". An empty dsn
// opens an in-memory SQLite database.
func openDatabase(ctx context.Context, dsn string) (*database, error) {
	driver, source := sqliteDriver, memoryDSN

	if dsn != "" {
		u, err := dburl.Parse(dsn)
		if err != nil {
			return nil, ErrOpenDatabase.Wrap(err)
		}

		driver, source = goDriver(u.Driver), u.DSN
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, ErrOpenDatabase.With(slog.String("driver", driver)).Wrap(err)
	}

	if source == memoryDSN {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, ErrOpenDatabase.With(slog.String("driver", driver)).Wrap(err)
	}

	log.DebugContext(ctx, "database opened", slog.String("driver", driver))

	return &database{DB: db, placeholder: placeholder(driver)}, nil
}

// goDriver maps a dburl driver name to the registered database/sql driver.
func goDriver(name string) string {
	switch name {
	case "postgres", "pgx":
		return "pgx"
	case "sqlite3", "sqlite", "moderncsqlite":
		return sqliteDriver
	default:
		return name
	}
}

// placeholder returns the first positional parameter of driver's dialect.
func placeholder(driver string) string {
	if driver == "pgx" {
		return "$1"
	}

	return "?"
}
