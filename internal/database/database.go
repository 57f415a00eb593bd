package database

import (
	"database/sql"

	_ "embed"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed schema.sql
var schema string

// InitDB opens the SQLite database at dataSourceName and verifies the
// connection. It never touches the schema; see InitSchema.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer at a time. One pooled connection
	// avoids SQLITE_BUSY under concurrent requests and keeps :memory:
	// databases from evaporating when the pool opens a second connection.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitSchema drops and recreates the user and post tables. Any existing
// data is lost. For setup and tests only, never on a live request path.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
