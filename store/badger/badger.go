// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package badger keeps a store.Log in a badger database.
package badger // import "github.com/ssbc/extpack/store/badger"

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/ssbc/extpack"
	pbadger "github.com/ssbc/extpack/internal/persist/badger"
	"github.com/ssbc/extpack/store"
)

// Open opens the log in the badger database at dir. Closing the log closes the database.
func Open(dir string, c extpack.Codec, opts ...store.Option) (*store.Log, error) {
	s, err := pbadger.New(dir)
	if err != nil {
		return nil, errors.Wrap(err, "store/badger: failed to open database")
	}

	log, err := store.New(s, c, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return log, nil
}

// OpenShared opens a log kept under prefix in db. Several logs can share one
// database as long as their prefixes differ. Closing the log leaves db open.
func OpenShared(db *badger.DB, prefix []byte, c extpack.Codec, opts ...store.Option) (*store.Log, error) {
	s, err := pbadger.NewShared(db, prefix)
	if err != nil {
		return nil, err
	}
	return store.New(s, c, opts...)
}
