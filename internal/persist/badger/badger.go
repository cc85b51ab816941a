// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package badger

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/ssbc/extpack/internal/persist"
)

// ModernSaver keeps its keys in a badger database, optionally under a prefix.
type ModernSaver struct {
	db     *badger.DB
	prefix []byte

	// shared savers don't own db
	shared bool
}

var _ persist.Saver = (*ModernSaver)(nil)

// Close closes the database, unless the saver was made with NewShared.
func (sl *ModernSaver) Close() error {
	if sl.shared {
		return nil
	}
	return sl.db.Close()
}

// New opens (or creates) the badger database at path.
func New(path string) (*ModernSaver, error) {
	var ms ModernSaver

	var err error
	ms.db, err = badger.Open(BadgerOpts(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create KV %s", path)
	}

	return &ms, nil
}

// NewShared returns a saver that stores its keys under prefix in db.
// Savers with different prefixes don't see each others keys.
func NewShared(db *badger.DB, prefix []byte) (*ModernSaver, error) {
	if len(prefix) == 0 {
		return nil, errors.New("persist/badger: shared saver needs a prefix")
	}
	return &ModernSaver{
		db:     db,
		prefix: append([]byte{}, prefix...),
		shared: true,
	}, nil
}
