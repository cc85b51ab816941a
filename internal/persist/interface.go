// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package persist defines a minimal key-value store interface and the
// backends implementing it.
package persist

import "errors"

//go:generate counterfeiter -o persistfakes/fake_saver.go . Saver

type Key []byte

var ErrNotFound = errors.New("persist: item not found")

// Saver stores opaque values under keys.
// Get returns ErrNotFound for unknown keys, deleting an unknown key is not an error.
// List returns the keys in no particular order.
type Saver interface {
	Put(Key, []byte) error
	Get(Key) ([]byte, error)
	Delete(Key) error

	List() ([]Key, error)
}
