// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package fs

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"

	"github.com/ssbc/extpack/internal/persist"
)

// Saver keeps one file per key in a directory.
// File names are the hex encoded keys, files are replaced atomically.
type Saver struct {
	base string
}

var _ persist.Saver = (*Saver)(nil)

// New returns a saver for the directory base. It is created on the first Put.
func New(base string) *Saver {
	return &Saver{base: base}
}

func (s Saver) path(key persist.Key) string {
	return filepath.Join(s.base, hex.EncodeToString(key))
}

func (s Saver) Put(key persist.Key, data []byte) error {
	if err := os.MkdirAll(s.base, 0700); err != nil {
		return errors.Wrap(err, "persist/fs/put: failed to create base directory")
	}
	err := atomicwriter.WriteFile(s.path(key), data, 0600)
	return errors.Wrap(err, "persist/fs/put: failed to write file")
}

func (s Saver) Get(key persist.Key) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persist.ErrNotFound
		}
		return nil, errors.Wrap(err, "persist/fs/get: failed to read file")
	}
	return data, nil
}

func (s Saver) Delete(key persist.Key) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "persist/fs/delete: failed to remove file")
	}
	return nil
}

func (s Saver) List() ([]persist.Key, error) {
	entries, err := os.ReadDir(s.base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "persist/fs/list: failed to read directory")
	}

	var keys []persist.Key
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		k, err := hex.DecodeString(e.Name())
		if err != nil {
			// leftover temporary files of interrupted writes
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}
