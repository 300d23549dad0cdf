// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. For a collection that is always read and written as a whole it
// adds transactional saves on top of what the plain JSON file offers.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/patients-api/internal/storage"
	"github.com/aanand-mishra/patients-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the patients table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storage.Wrap("sqlite.New: open db", err)
	}

	// Schema:
	//   position — insertion order; Load sorts on it
	//   id       — the caller-supplied identifier, unique
	//   the remaining columns are the six base fields. BMI and verdict are
	//   derived on read and have no column.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS patients (
			position INTEGER NOT NULL,
			id       TEXT    PRIMARY KEY,
			name     TEXT    NOT NULL,
			city     TEXT    NOT NULL,
			age      INTEGER NOT NULL,
			gender   TEXT    NOT NULL,
			height   REAL    NOT NULL,
			weight   REAL    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, storage.Wrap("sqlite.New: create table", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Load returns every row ordered by insertion position.
//
// Query returns a cursor (*sql.Rows); we iterate with rows.Next() and Scan
// each row. The order of variables in Scan must match the SELECT list.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Load() ([]types.Patient, error) {
	rows, err := s.Db.Query(
		"SELECT id, name, city, age, gender, height, weight FROM patients ORDER BY position",
	)
	if err != nil {
		return nil, storage.Wrap("sqlite.Load: query", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice.
	patients := make([]types.Patient, 0)

	for rows.Next() {
		var p types.Patient

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.City,
			&p.Age,
			&p.Gender,
			&p.Height,
			&p.Weight,
		); err != nil {
			return nil, storage.Wrap("sqlite.Load: scan row", err)
		}

		patients = append(patients, p)
	}

	// rows.Err() captures any error that occurred during iteration.
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("sqlite.Load: rows iteration", err)
	}

	return patients, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SaveAll replaces the table contents inside one transaction. If any insert
// fails the transaction is rolled back and the previous rows survive.
//
// Inserts use a prepared statement with ? placeholders; the driver sends
// the values separately from the SQL, so ids and names are never
// interpreted as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) SaveAll(records []types.Patient) (retErr error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return storage.Wrap("sqlite.SaveAll: begin", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec("DELETE FROM patients"); err != nil {
		return storage.Wrap("sqlite.SaveAll: clear", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO patients (position, id, name, city, age, gender, height, weight) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return storage.Wrap("sqlite.SaveAll: prepare", err)
	}
	defer stmt.Close()

	for i, p := range records {
		// Argument order matches the ? order in the SQL.
		if _, err := stmt.Exec(i, p.ID, p.Name, p.City, p.Age, string(p.Gender), p.Height, p.Weight); err != nil {
			return storage.Wrap(fmt.Sprintf("sqlite.SaveAll: insert %q", p.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Wrap("sqlite.SaveAll: commit", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}
