//go:build !cgo_sqlite

package cmd

import _ "modernc.org/sqlite"

// sqliteDriver is the database/sql driver name for SQLite.
const sqliteDriver = "sqlite"
