/*
Package catalog maintains a SQLite database of Netpbm image metadata
gathered by scanning directory trees.
*/
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// An Entry is the cataloged metadata for one file.
type Entry struct {
	Path   string
	Magic  string
	Width  int
	Height int
	MaxVal uint32
	SHA1   string
}

// DB wraps the catalog database.
type DB struct {
	db *sql.DB
}

// New opens, creating if necessary, the catalog database at file.
func New(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog")
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, magic TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, maxval INTEGER NOT NULL, sha1 TEXT NOT NULL)"); err != nil {
		return nil, errors.Wrap(err, "creating schema")
	}

	return &DB{db: db}, nil
}

// Close closes the catalog database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Set inserts or replaces the entry for its path.
func (db *DB) Set(e Entry) error {
	_, err := db.db.Exec("INSERT OR REPLACE INTO image (path, magic, width, height, maxval, sha1) VALUES (?, ?, ?, ?, ?, ?)", e.Path, e.Magic, e.Width, e.Height, e.MaxVal, e.SHA1)
	return errors.Wrap(err, "storing entry")
}

// FindByPath returns the entry for path, or nil if it has not been
// cataloged.
func (db *DB) FindByPath(path string) (*Entry, error) {
	e := Entry{Path: path}
	switch err := db.db.QueryRow("SELECT magic, width, height, maxval, sha1 FROM image WHERE path = ?", path).Scan(&e.Magic, &e.Width, &e.Height, &e.MaxVal, &e.SHA1); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// FindBySHA1 returns the paths of every cataloged file with the given
// content hash.
func (db *DB) FindBySHA1(sha1 string) ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM image WHERE sha1 = ? ORDER BY path", sha1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Count returns the number of cataloged files.
func (db *DB) Count() (int, error) {
	var n int
	err := db.db.QueryRow("SELECT COUNT(*) FROM image").Scan(&n)
	return n, err
}
