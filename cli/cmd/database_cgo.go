//go:build cgo_sqlite

package cmd

import _ "github.com/mattn/go-sqlite3"

// sqliteDriver is the database/sql driver name for SQLite.
const sqliteDriver = "sqlite3"
