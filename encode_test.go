// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPrimitives(t *testing.T) {
	p := NewPacker(nil)

	tcs := []struct {
		in   interface{}
		want []byte
	}{
		{nil, []byte{0xc0}},
		{true, []byte{0xc3}},
		{int8(-1), []byte{0xff}},
		{uint16(5), []byte{0x05}},
		{"hi", []byte{0xa2, 'h', 'i'}},
		{[]byte("hi"), []byte{0xc4, 0x02, 'h', 'i'}},
		{[]interface{}{1, "a"}, []byte{0x92, 0x01, 0xa1, 'a'}},
		{[]interface{}(nil), []byte{0xc0}},
		{map[string]interface{}{"b": 1, "a": 2}, []byte{0x82, 0xa1, 'a', 0x02, 0xa1, 'b', 0x01}},
		{map[interface{}]interface{}{int64(1): "x"}, []byte{0x81, 0x01, 0xa1, 'x'}},
		{1.5, []byte{0xcb, 0x3f, 0xf8, 0, 0, 0, 0, 0, 0}},
	}

	for _, tc := range tcs {
		got, err := p.Pack(tc.in)
		require.NoError(t, err, "%#v", tc.in)
		assert.Equal(t, tc.want, got, "%#v", tc.in)
	}
}

func TestPackNormalized(t *testing.T) {
	type (
		celsius  float64
		name     string
		ids      []int
		blob     []byte
		index    map[string]uint8
		byKey    map[int]string
		triple   [3]int16
		checksum [4]byte
	)

	p := NewPacker(nil)
	same := func(a, b interface{}) {
		t.Helper()
		ba, err := p.Pack(a)
		require.NoError(t, err, "%T", a)
		bb, err := p.Pack(b)
		require.NoError(t, err, "%T", b)
		require.Equal(t, bb, ba, "%T", a)
	}

	same(celsius(21.5), 21.5)
	same(name("bob"), "bob")
	same(ids{1, 2}, []interface{}{1, 2})
	same(blob("raw"), []byte("raw"))
	same(index{"a": 1}, map[string]interface{}{"a": 1})
	same(byKey{3: "c"}, map[interface{}]interface{}{3: "c"})
	same(triple{1, 2, 3}, []interface{}{1, 2, 3})
	same(checksum{1, 2, 3, 4}, []byte{1, 2, 3, 4})
	same(Tuple{1, "x"}, []interface{}{1, "x"})

	v := 7
	same(&v, 7)
	same((*int)(nil), nil)
	same(ids(nil), nil)
}

func TestPackRefused(t *testing.T) {
	type flag bool
	type point struct{ X, Y int }

	p := NewPacker(nil)
	for _, v := range []interface{}{
		flag(true),
		point{1, 2},
		&point{1, 2},
		time.Now(),
		make(chan int),
		func() {},
		complex(1, 2),
		[]interface{}{1, point{}},
		map[string]interface{}{"p": point{}},
	} {
		_, err := p.Pack(v)
		assert.True(t, IsEncodeError(err), "%T: %v", v, err)
	}

	_, err := p.Pack(point{})
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, reflect.TypeOf(point{}), ee.Type)
	require.Contains(t, err.Error(), "extpack.point")

	// keys must stay scalar once lowered
	_, err = p.Pack(map[interface{}]interface{}{"k": 1, [2]int{1, 2}: 2})
	assert.True(t, IsEncodeError(err), "%v", err)

	_, err = p.Pack(map[interface{}]interface{}{point{}: 1})
	assert.True(t, IsEncodeError(err), "%v", err)
}

func TestPackKeyCollisions(t *testing.T) {
	type label string

	p := NewPacker(nil)
	for name, m := range map[string]map[interface{}]interface{}{
		"byte array": {[1]byte{1}: "a", "\x01": "b"},
		"named":      {label("k"): 1, "k": 2},
		"int widths": {int8(7): 1, uint64(7): 2},
	} {
		_, err := p.Pack(m)
		assert.True(t, IsEncodeError(err), "%s: %v", name, err)
	}

	// distinct once lowered
	got, err := p.Pack(map[interface{}]interface{}{label("a"): 1, "b": 2, int64(-1): 3, uint(1): 4})
	require.NoError(t, err)
	want, err := p.Pack(map[interface{}]interface{}{"a": 1, "b": 2, int64(-1): 3, int64(1): 4})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

type celsius float64

func TestHooksRunBeforeNormalization(t *testing.T) {
	r := require.New(t)

	reg := NewEncodeRegistry()
	reg.Register("celsius", func(v interface{}) (interface{}, bool, error) {
		c, ok := v.(celsius)
		if !ok {
			return nil, false, nil
		}
		return map[string]interface{}{"C": float64(c)}, true, nil
	})

	got, err := NewPacker(reg).Pack([]interface{}{celsius(3)})
	r.NoError(err)
	want, err := NewPacker(nil).Pack([]interface{}{map[string]interface{}{"C": 3.0}})
	r.NoError(err)
	r.Equal(want, got)
}

func TestFirstHookWins(t *testing.T) {
	r := require.New(t)

	var calls []string
	hook := func(name string, ok bool) EncodeFunc {
		return func(v interface{}) (interface{}, bool, error) {
			calls = append(calls, name)
			if !ok {
				return nil, false, nil
			}
			return name, true, nil
		}
	}

	reg := NewEncodeRegistry()
	reg.Register("skip", hook("skip", false))
	reg.Register("take", hook("take", true))
	reg.Register("never", hook("never", true))

	got, err := NewPacker(reg).Pack(celsius(1))
	r.NoError(err)
	r.Equal([]byte{0xa4, 't', 'a', 'k', 'e'}, got)
	r.Equal([]string{"skip", "take"}, calls)
}

func TestHookErrors(t *testing.T) {
	r := require.New(t)

	boom := errors.New("boom")
	reg := NewEncodeRegistry()
	reg.Register("fail", func(v interface{}) (interface{}, bool, error) {
		return nil, false, boom
	})

	_, err := NewPacker(reg).Pack(celsius(1))
	r.True(IsEncodeError(err))
	r.Equal(boom, errors.Cause(err))

	// a hook that keeps wrapping its input does not recurse forever
	loop := NewEncodeRegistry()
	loop.Register("loop", func(v interface{}) (interface{}, bool, error) {
		return []interface{}{celsius(1)}, true, nil
	})
	_, err = NewPacker(loop).Pack(celsius(1))
	r.True(IsEncodeError(err))
	r.Equal(ErrMaxDepth, errors.Cause(err))
}

func TestPackTo(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	p := NewPacker(nil)
	r.NoError(p.PackTo(&buf, "a"))
	r.NoError(p.PackTo(&buf, 1))
	r.Equal([]byte{0xa1, 'a', 0x01}, buf.Bytes())

	r.Error(p.PackTo(&buf, struct{}{}))
}
