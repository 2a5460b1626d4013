// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sqlite

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linearvm/storage/backend"
)

var _ backend.Store = (*Store)(nil)

// Store is a backend.Store persisting snapshot blobs in a single-table
// SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite-backed store at the given file path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
	}
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS slots (key BLOB PRIMARY KEY, value BLOB NOT NULL)")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrNotFound
	}
	return value, err
}

func (s *Store) Put(key, value []byte) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO slots (key, value) VALUES (?, ?)", key, value)
	return err
}

func (s *Store) Delete(key []byte) error {
	_, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key)
	return err
}

func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	rows, err := s.queryPrefix(prefix)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) queryPrefix(prefix []byte) (*sql.Rows, error) {
	if len(prefix) == 0 {
		return s.db.Query("SELECT key, value FROM slots ORDER BY key")
	}
	if upper, bounded := prefixUpperBound(prefix); bounded {
		return s.db.Query(
			"SELECT key, value FROM slots WHERE key >= ? AND key < ? ORDER BY key",
			prefix, upper)
	}
	return s.db.Query("SELECT key, value FROM slots WHERE key >= ? ORDER BY key", prefix)
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, if such a key exists.
func prefixUpperBound(prefix []byte) ([]byte, bool) {
	upper := bytes.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xFF {
			upper[i]++
			return upper[:i+1], true
		}
	}
	return nil, false
}

func (s *Store) Flush() error {
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
