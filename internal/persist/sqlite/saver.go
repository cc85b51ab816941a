// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package sqlite

import (
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/ssbc/extpack/internal/persist"
)

const table = "persisted"

const schemaVersion1 = `
CREATE TABLE IF NOT EXISTS persisted (
	key TEXT PRIMARY KEY,
	data BLOB
);
PRAGMA user_version = 1;
`

// SqliteSaver keeps its values in one table of a sqlite database.
// Keys are stored hex encoded.
type SqliteSaver struct {
	db *sql.DB
}

var _ persist.Saver = (*SqliteSaver)(nil)

// New opens the database at path. If path is a directory, or does not exist
// yet, the database is the file persist.db inside of it.
func New(path string) (*SqliteSaver, error) {
	s, err := os.Stat(path)
	if os.IsNotExist(err) {
		err = os.MkdirAll(path, 0700)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create path location")
		}
		s, err = os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to stat created path location")
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to stat path location")
	}
	if s.IsDir() {
		path = filepath.Join(path, "persist.db")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite file: %s", path)
	}

	var version int
	err = db.QueryRow(`PRAGMA user_version`).Scan(&version)
	if err == sql.ErrNoRows || (err == nil && version == 0) {
		if _, err := db.Exec(schemaVersion1); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "persist/sqlite: failed to init schema v1")
		}
	} else if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "persist/sqlite: schema version lookup failed %s", path)
	}

	return &SqliteSaver{db: db}, nil
}

func (s SqliteSaver) Close() error {
	return s.db.Close()
}

func (s SqliteSaver) Put(key persist.Key, data []byte) error {
	qry, args, err := squirrel.Replace(table).
		Columns("key", "data").
		Values(hex.EncodeToString(key), data).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "persist/sqlite/put: failed to build query")
	}
	_, err = s.db.Exec(qry, args...)
	if err != nil {
		return errors.Wrap(err, "persist/sqlite/put: failed to replace value")
	}
	return nil
}

func (s SqliteSaver) Get(key persist.Key) ([]byte, error) {
	qry, args, err := squirrel.Select("data").
		From(table).
		Where(squirrel.Eq{"key": hex.EncodeToString(key)}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "persist/sqlite/get: failed to build query")
	}

	var data []byte
	err = s.db.QueryRow(qry, args...).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, persist.ErrNotFound
		}
		return nil, errors.Wrapf(err, "persist/sqlite/get(%x): failed to execute query", []byte(key))
	}
	return data, nil
}

func (s SqliteSaver) Delete(key persist.Key) error {
	qry, args, err := squirrel.Delete(table).
		Where(squirrel.Eq{"key": hex.EncodeToString(key)}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "persist/sqlite/delete: failed to build query")
	}
	_, err = s.db.Exec(qry, args...)
	return errors.Wrap(err, "persist/sqlite/delete: failed to execute query")
}

func (s SqliteSaver) List() ([]persist.Key, error) {
	qry, args, err := squirrel.Select("key").From(table).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "persist/sqlite/list: failed to build query")
	}

	var keys []persist.Key
	rows, err := s.db.Query(qry, args...)
	if err != nil {
		return nil, errors.Wrap(err, "persist/sqlite/list: failed to execute rows query")
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		err := rows.Scan(&k)
		if err != nil {
			return nil, errors.Wrap(err, "persist/sqlite/list: failed to scan row result")
		}
		bk, err := hex.DecodeString(k)
		if err != nil {
			return nil, errors.Wrapf(err, "persist/sqlite/list: invalid key: %q", k)
		}
		keys = append(keys, bk)
	}

	return keys, rows.Err()
}
