// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package mkv

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ssbc/extpack/internal/persist"
)

func (s ModernSaver) Put(key persist.Key, data []byte) error {
	return errors.Wrap(s.db.Set(key, data), "persist/mkv/put: failed to set value")
}

func (s ModernSaver) Get(key persist.Key) ([]byte, error) {
	data, err := s.db.Get(nil, key)
	if err != nil {
		return nil, errors.Wrap(err, "persist/mkv/get: failed to read value")
	}
	if data == nil {
		return nil, persist.ErrNotFound
	}
	return data, nil
}

func (s ModernSaver) Delete(key persist.Key) error {
	return errors.Wrap(s.db.Delete(key), "persist/mkv/delete: failed to delete value")
}

func (s ModernSaver) List() ([]persist.Key, error) {
	var keys []persist.Key
	iter, err := s.db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return keys, nil
		}
		return nil, err
	}
	for {
		k, _, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		keys = append(keys, append(persist.Key{}, k...))
	}
	return keys, nil
}
