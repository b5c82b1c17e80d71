package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// busyTimeoutMillis bounds how long a writer waits on a locked database.
// The web server records runs from concurrent requests.
const busyTimeoutMillis = 5000

// pragmas are applied to every opened history database, in order.
var pragmas = []struct {
	stmt string
	what string
}{
	{"PRAGMA journal_mode=WAL", "setting journal mode"},
	{fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMillis), "setting busy timeout"},
	{"PRAGMA foreign_keys=ON", "enabling foreign keys"},
}

// DB is the run history store.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens the history database at dbPath, creating the file and its
// directory when missing, and migrates it to the latest schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", dbPath, err)
	}
	// A single connection keeps per-connection pragmas in effect and
	// serializes writers inside the process.
	conn.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := conn.Exec(p.stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}
	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}
