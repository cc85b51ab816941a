// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDType(t *testing.T) {
	type tcase struct {
		in    string
		kind  Kind
		order ByteOrder
		size  int
		str   string
	}

	tcs := []tcase{
		{"<f8", KindFloat, LittleEndian, 8, "<f8"},
		{">i4", KindInt, BigEndian, 4, ">i4"},
		{"|u1", KindUint, NotApplicable, 1, "|u1"},
		{"<u1", KindUint, NotApplicable, 1, "|u1"},
		{"|b1", KindBool, NotApplicable, 1, "|b1"},
		{"<c16", KindComplex, LittleEndian, 16, "<c16"},
		{"|S5", KindBytes, NotApplicable, 5, "|S5"},
		{"<U3", KindUnicode, LittleEndian, 12, "<U3"},
		{"|V7", KindVoid, NotApplicable, 7, "|V7"},
		{"<f2", KindFloat, LittleEndian, 2, "<f2"},
		{"i8", KindInt, NativeOrder, 8, string(rune(NativeOrder)) + "i8"},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			a := assert.New(t)
			dt, err := ParseDType(tc.in)
			require.NoError(t, err)
			a.Equal(tc.kind, dt.Kind)
			a.Equal(tc.order, dt.Order)
			a.Equal(tc.size, dt.ItemSize)
			a.Equal(tc.str, dt.String())
		})
	}
}

func TestParseDTypeErrors(t *testing.T) {
	for _, in := range []string{"", "<", "<f", "<fx", "<i3", "|O8", "<M8", "<c4", "|b2", "<U4611686018427387904"} {
		_, err := ParseDType(in)
		assert.Error(t, err, "%q", in)
	}

	_, err := ParseDType("|O8")
	assert.Equal(t, ErrUnsupportedDType, errors.Cause(err))
}

func TestStructuredDescr(t *testing.T) {
	r := require.New(t)

	descr := []interface{}{
		[]interface{}{"id", "<i4"},
		[]interface{}{[]byte("pos"), "<f8", []interface{}{int64(3)}},
		[]interface{}{"tag", []interface{}{
			[]interface{}{"a", "|u1"},
			[]interface{}{"b", ">u2"},
		}},
	}

	dt, err := FromDescr(descr)
	r.NoError(err)
	r.True(dt.IsStructured())
	r.Equal(KindVoid, dt.Kind)
	r.Equal(4+3*8+3, dt.ItemSize)
	r.Equal("|V31", dt.String())

	r.Len(dt.Fields, 3)
	r.Equal("pos", dt.Fields[1].Name)
	r.Equal(Shape{3}, dt.Fields[1].Shape)
	r.True(dt.Fields[2].Type.IsStructured())

	again, err := FromDescr(dt.Descr())
	r.NoError(err)
	r.True(dt.Equal(again))

	_, err = FromDescr([]interface{}{[]interface{}{"x"}})
	r.Error(err)
	_, err = FromDescr(42)
	r.Error(err)
}

func TestDTypeEqual(t *testing.T) {
	a := assert.New(t)
	a.True(Float64.Equal(Float64))
	a.False(Float64.Equal(Float32))
	a.False(Float64.Equal(nil))

	swapped := LittleEndian
	if NativeOrder == LittleEndian {
		swapped = BigEndian
	}
	a.False(Float64.Equal(Float64.WithOrder(swapped)))
	a.True(Uint8.Equal(Uint8.WithOrder(swapped)), "single bytes have no order")
}

func TestTypeOf(t *testing.T) {
	type myFloat float32

	a := assert.New(t)
	a.Equal(Float32, TypeOf[myFloat]())
	a.Equal(Complex128, TypeOf[complex128]())
	a.Equal(Bool, TypeOf[bool]())
	a.Equal(Uint16, TypeOf[uint16]())
}
