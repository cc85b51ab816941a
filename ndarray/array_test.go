// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndValues(t *testing.T) {
	r := require.New(t)

	arr, err := New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	r.NoError(err)
	r.Equal(Shape{2, 3}, arr.Shape())
	r.Equal([]int{24, 8}, arr.Strides())
	r.True(arr.IsCContiguous())
	r.Equal(6, arr.Len())
	r.Equal(2, arr.NDim())

	v, err := arr.At(1, 2)
	r.NoError(err)
	r.Equal(6.0, v)

	_, err = arr.At(2, 0)
	r.Error(err)
	_, err = arr.At(0)
	r.Error(err)

	got, err := Values[float64](arr)
	r.NoError(err)
	r.Equal([]float64{1, 2, 3, 4, 5, 6}, got)

	_, err = Values[int64](arr)
	r.Error(err)

	_, err = New([]int32{1, 2, 3}, 2, 2)
	r.Error(err)
}

func TestTransposeAndSlice(t *testing.T) {
	r := require.New(t)

	arr, err := New([]int32{0, 1, 2, 3, 4, 5}, 2, 3)
	r.NoError(err)

	tr := arr.Transpose()
	r.Equal(Shape{3, 2}, tr.Shape())
	r.False(tr.IsCContiguous())
	r.Equal([]interface{}{int64(0), int64(3), int64(1), int64(4), int64(2), int64(5)}, tr.Values())

	cont := tr.Contiguous()
	r.True(cont.IsCContiguous())
	r.True(tr.Equal(cont))
	got, err := Values[int32](cont)
	r.NoError(err)
	r.Equal([]int32{0, 3, 1, 4, 2, 5}, got)

	cols, err := arr.Slice(1, 0, 3, 2)
	r.NoError(err)
	r.Equal(Shape{2, 2}, cols.Shape())
	r.False(cols.IsCContiguous())
	got, err = Values[int32](cols)
	r.NoError(err)
	r.Equal([]int32{0, 2, 3, 5}, got)

	row, err := arr.Slice(0, -1, 10, 1)
	r.NoError(err)
	r.True(row.IsCContiguous())
	got, err = Values[int32](row)
	r.NoError(err)
	r.Equal([]int32{3, 4, 5}, got)

	empty, err := arr.Slice(1, 2, 1, 1)
	r.NoError(err)
	r.Equal(Shape{2, 0}, empty.Shape())
	r.Len(empty.Bytes(), 0)

	_, err = arr.Slice(2, 0, 1, 1)
	r.Error(err)
	_, err = arr.Slice(0, 0, 1, 0)
	r.Error(err)
}

func TestReshape(t *testing.T) {
	r := require.New(t)

	arr, err := New([]uint8{1, 2, 3, 4, 5, 6})
	r.NoError(err)

	m, err := arr.Reshape(3, 2)
	r.NoError(err)
	v, err := m.At(2, 0)
	r.NoError(err)
	r.Equal(uint64(5), v)

	_, err = arr.Reshape(4, 2)
	r.Error(err)

	flat, err := m.Transpose().Reshape(6)
	r.NoError(err)
	got, err := Values[uint8](flat)
	r.NoError(err)
	r.Equal([]uint8{1, 3, 5, 2, 4, 6}, got)
}

func TestZeroDim(t *testing.T) {
	r := require.New(t)

	arr, err := FromBuffer(Float64, Shape{}, make([]byte, 8))
	r.NoError(err)
	r.Equal(0, arr.NDim())
	r.Equal(1, arr.Len())
	v, err := arr.At()
	r.NoError(err)
	r.Equal(0.0, v)

	_, err = FromBuffer(Float64, Shape{2}, make([]byte, 8))
	r.Error(err)
}

func TestByteOrder(t *testing.T) {
	r := require.New(t)

	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf, math.Float64bits(1.5))
	binary.BigEndian.PutUint64(buf[8:], math.Float64bits(-2))

	dt, err := ParseDType(">f8")
	r.NoError(err)
	arr, err := FromBuffer(dt, Shape{2}, buf)
	r.NoError(err)

	r.Equal([]interface{}{1.5, -2.0}, arr.Values())
	got, err := Values[float64](arr)
	r.NoError(err)
	r.Equal([]float64{1.5, -2}, got)
}

func TestElementKinds(t *testing.T) {
	type tcase struct {
		descr string
		data  []byte
		want  interface{}
	}

	tcs := []tcase{
		{"|b1", []byte{1}, true},
		{"|i1", []byte{0xff}, int64(-1)},
		{"<i2", []byte{0xfe, 0xff}, int64(-2)},
		{">u4", []byte{0, 0, 1, 0}, uint64(256)},
		{"<f2", []byte{0x00, 0x3c}, 1.0},
		{"<f2", []byte{0x00, 0xc0}, -2.0},
		{"<f4", []byte{0, 0, 0x80, 0x3f}, 1.0},
		{"<c8", []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0x40}, complex(1, 2)},
		{"|S4", []byte("ab\x00\x00"), []byte("ab")},
		{"<U2", []byte{'h', 0, 0, 0, 'i', 0, 0, 0}, "hi"},
		{">U2", []byte{0, 0, 0, 'h', 0, 0, 0, 0}, "h"},
		{"|V2", []byte{7, 8}, []byte{7, 8}},
	}

	for _, tc := range tcs {
		t.Run(tc.descr, func(t *testing.T) {
			dt, err := ParseDType(tc.descr)
			require.NoError(t, err)
			s, err := NewScalar(dt, tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Value())
		})
	}
}

func TestStructuredValues(t *testing.T) {
	r := require.New(t)

	dt := Struct(
		Field{Name: "x", Type: Uint8},
		Field{Name: "y", Type: Uint8, Shape: Shape{2}},
	)
	r.Equal(3, dt.ItemSize)

	arr, err := FromBuffer(dt, Shape{2}, []byte{1, 2, 3, 4, 5, 6})
	r.NoError(err)

	r.Equal([]interface{}{
		map[string]interface{}{"x": uint64(1), "y": []interface{}{uint64(2), uint64(3)}},
		map[string]interface{}{"x": uint64(4), "y": []interface{}{uint64(5), uint64(6)}},
	}, arr.Values())
}

func TestScalar(t *testing.T) {
	a := assert.New(t)

	s := ScalarOf(float32(0.5))
	a.Equal(Float32, s.DType())
	a.Equal(0.5, s.Value())
	a.Len(s.Bytes(), 4)
	a.True(s.Equal(ScalarOf(float32(0.5))))
	a.False(s.Equal(ScalarOf(float64(0.5))))

	_, err := NewScalar(Int64, []byte{1})
	a.Error(err)
}

func TestRuntimeOwnsBuffer(t *testing.T) {
	rt := DefaultRuntime()
	if rt == nil {
		t.Skip("built without array support")
	}
	r := require.New(t)

	buf := []byte{1, 2}
	arr, err := rt.FromBuffer(Uint8, Shape{2}, buf)
	r.NoError(err)
	buf[0] = 9
	r.Equal([]interface{}{uint64(1), uint64(2)}, arr.Values())
}

func TestSizeOverflow(t *testing.T) {
	a := assert.New(t)

	wraps := Shape{65536, 65536, 65536, 65536}
	a.Error(wraps.Validate())

	_, err := FromBuffer(Float64, wraps, nil)
	a.Error(err)
	_, err = Zeros(Float64, wraps...)
	a.Error(err)

	// fits as elements, not as bytes
	_, err = FromBuffer(Float64, Shape{math.MaxInt / 2}, nil)
	a.Error(err)

	field := Field{Name: "a", Type: Float64, Shape: Shape{6700417, 42009217, 65535}}
	_, err = NewStruct(field)
	a.Error(err)
	a.Panics(func() { Struct(field) })

	_, err = FromDescr([]interface{}{
		[]interface{}{"a", "<f8", []interface{}{int64(6700417), int64(42009217), int64(65535)}},
	})
	a.Error(err)

	// hand built dtypes are checked before use
	forged := &DType{Kind: KindVoid, Order: NotApplicable, ItemSize: 8, Fields: []Field{field}}
	_, err = NewScalar(forged, make([]byte, 8))
	a.Error(err)
	_, err = FromBuffer(forged, Shape{1}, make([]byte, 8))
	a.Error(err)

	_, err = NewScalar(&DType{Kind: KindBytes, Order: NotApplicable, ItemSize: -8}, nil)
	a.Error(err)
}
