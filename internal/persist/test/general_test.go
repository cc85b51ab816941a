// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package test

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssbc/extpack/internal/persist"
	"github.com/ssbc/extpack/internal/persist/badger"
	"github.com/ssbc/extpack/internal/persist/fs"
	"github.com/ssbc/extpack/internal/persist/mkv"
	"github.com/ssbc/extpack/internal/persist/sqlite"
)

func SimpleSaver(p persist.Saver) func(*testing.T) {

	return func(t *testing.T) {
		r := require.New(t)

		l, err := p.List()
		r.NoError(err)
		r.Len(l, 0, "%v", l)

		k := persist.Key{0, 0, 0, 1}
		d, err := p.Get(k)
		r.EqualError(err, persist.ErrNotFound.Error())
		r.Nil(d)

		testData := []byte("fooo")

		err = p.Put(k, testData)
		r.NoError(err)

		l, err = p.List()
		r.NoError(err)
		r.Len(l, 1)
		r.Equal(k, l[0])

		d, err = p.Get(k)
		r.NoError(err)
		r.Equal(d, testData)

		// overwrite
		err = p.Put(k, []byte("bar"))
		r.NoError(err)

		d, err = p.Get(k)
		r.NoError(err)
		r.Equal([]byte("bar"), d)
	}
}

func MultipleKeys(p persist.Saver) func(*testing.T) {
	return func(t *testing.T) {
		r := require.New(t)

		keys := []persist.Key{
			{0, 0, 0, 2},
			{0, 0, 0, 1},
			{1, 2, 3},
		}
		for i, k := range keys {
			err := p.Put(k, []byte{byte(i), 0xff})
			r.NoError(err)
		}

		l, err := p.List()
		r.NoError(err)
		r.Len(l, len(keys))

		sort.Slice(l, func(i, j int) bool { return string(l[i]) < string(l[j]) })
		r.Equal(keys[1], l[0])
		r.Equal(keys[0], l[1])
		r.Equal(keys[2], l[2])

		for i, k := range keys {
			d, err := p.Get(k)
			r.NoError(err)
			r.Equal([]byte{byte(i), 0xff}, d)
		}
	}
}

func Delete(p persist.Saver) func(*testing.T) {
	return func(t *testing.T) {
		r := require.New(t)

		a, b := persist.Key("a"), persist.Key("b")
		r.NoError(p.Put(a, []byte("one")))
		r.NoError(p.Put(b, []byte("two")))

		r.NoError(p.Delete(a))

		_, err := p.Get(a)
		r.Equal(persist.ErrNotFound, err)

		d, err := p.Get(b)
		r.NoError(err)
		r.Equal([]byte("two"), d)

		l, err := p.List()
		r.NoError(err)
		r.Equal([]persist.Key{b}, l)

		// deleting twice is fine
		r.NoError(p.Delete(a))
	}
}

type opener func(t *testing.T) persist.Saver

func TestSaver(t *testing.T) {
	backends := map[string]opener{
		"fs":     makeFS,
		"sqlite": makeSqlite,
		"badger": makeBadger,
		"mkv":    makeMKV,
	}

	for name, open := range backends {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Run("Simple", func(t *testing.T) { SimpleSaver(open(t))(t) })
			t.Run("Multiple", func(t *testing.T) { MultipleKeys(open(t))(t) })
			t.Run("Delete", func(t *testing.T) { Delete(open(t))(t) })
		})
	}
}

func testDir(t *testing.T) string {
	base := filepath.Join("testrun", t.Name())
	os.RemoveAll(base)
	return base
}

func closeAfter(t *testing.T, s persist.Saver) persist.Saver {
	if c, ok := s.(io.Closer); ok {
		t.Cleanup(func() {
			if err := c.Close(); err != nil {
				t.Log("close failed:", err)
			}
		})
	}
	return s
}

func makeFS(t *testing.T) persist.Saver {
	return fs.New(testDir(t))
}

func makeSqlite(t *testing.T) persist.Saver {
	s, err := sqlite.New(testDir(t))
	if err != nil {
		t.Fatal(err)
	}
	return closeAfter(t, s)
}

func makeBadger(t *testing.T) persist.Saver {
	s, err := badger.New(testDir(t))
	if err != nil {
		t.Fatal(err)
	}
	return closeAfter(t, s)
}

func makeMKV(t *testing.T) persist.Saver {
	s, err := mkv.New(filepath.Join(testDir(t), "db"))
	if err != nil {
		t.Fatal(err)
	}
	return closeAfter(t, s)
}
