// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"bytes"
	"unsafe"

	"github.com/pkg/errors"
)

// Array is a strided view on a byte buffer holding elements of one dtype.
// Views made by Slice, Transpose or Reshape share the buffer of their source.
type Array struct {
	dtype   *DType
	shape   Shape
	strides []int // in bytes
	offset  int
	buf     []byte
}

// Zeros allocates a zero filled C-contiguous array.
func Zeros(dt *DType, shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := dt.validate(); err != nil {
		return nil, err
	}
	size, err := s.byteSize(dt.ItemSize)
	if err != nil {
		return nil, err
	}
	return &Array{
		dtype:   dt,
		shape:   s.Clone(),
		strides: s.Strides(dt.ItemSize),
		buf:     make([]byte, size),
	}, nil
}

// FromBuffer interprets data as a C-contiguous array of the given dtype and
// shape. The array references data, it is not copied. An empty shape makes a
// 0-d array.
func FromBuffer(dt *DType, shape Shape, data []byte) (*Array, error) {
	if err := dt.validate(); err != nil {
		return nil, err
	}
	want, err := shape.byteSize(dt.ItemSize)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, errors.Errorf("ndarray: buffer of %d bytes does not fit shape %v of %s (%d bytes)", len(data), shape, dt, want)
	}
	return &Array{
		dtype:   dt,
		shape:   shape.Clone(),
		strides: shape.Strides(dt.ItemSize),
		buf:     data,
	}, nil
}

// New copies data into a new array of native order dtype.
// Without a shape the array is 1-d.
func New[T Element](data []T, shape ...int) (*Array, error) {
	s := Shape(shape)
	if len(shape) == 0 {
		s = Shape{len(data)}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(data) {
		return nil, errors.Errorf("ndarray: shape %v requires %d elements, but got %d", s, s.NumElements(), len(data))
	}
	dt := TypeOf[T]()
	return FromBuffer(dt, s, asBytes(data, dt.ItemSize))
}

// asBytes copies the memory of data. Elements are in native order.
func asBytes[T Element](data []T, itemSize int) []byte {
	out := make([]byte, len(data)*itemSize)
	if len(data) > 0 {
		copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(out)))
	}
	return out
}

// DType returns the element dtype.
func (a *Array) DType() *DType { return a.dtype }

// Shape returns the dimensions.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// Strides returns the byte strides.
func (a *Array) Strides() []int {
	out := make([]int, len(a.strides))
	copy(out, a.strides)
	return out
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int { return a.shape.NumElements() }

// IsCContiguous reports whether the elements are laid out densely in
// row-major order, last axis fastest.
func (a *Array) IsCContiguous() bool {
	if a.Len() == 0 {
		return true
	}
	want := a.dtype.ItemSize
	for i := len(a.shape) - 1; i >= 0; i-- {
		if a.shape[i] == 1 {
			continue
		}
		if a.strides[i] != want {
			return false
		}
		want *= a.shape[i]
	}
	return true
}

// Bytes returns the elements densely packed in row-major order. For
// C-contiguous arrays this is a view on the buffer, otherwise a fresh copy.
func (a *Array) Bytes() []byte {
	n := a.Len() * a.dtype.ItemSize
	if a.IsCContiguous() {
		return a.buf[a.offset : a.offset+n]
	}
	out := make([]byte, 0, n)
	a.each(func(off int) {
		out = append(out, a.buf[off:off+a.dtype.ItemSize]...)
	})
	return out
}

// Contiguous returns a C-contiguous copy of a.
func (a *Array) Contiguous() *Array {
	data := append([]byte{}, a.Bytes()...)
	return &Array{
		dtype:   a.dtype,
		shape:   a.shape.Clone(),
		strides: a.shape.Strides(a.dtype.ItemSize),
		buf:     data,
	}
}

// each calls fn with the byte offset of every element in row-major order.
func (a *Array) each(fn func(off int)) {
	if a.Len() == 0 {
		return
	}
	idx := make([]int, len(a.shape))
	off := a.offset
	for {
		fn(off)

		// advance the multi-index, last axis fastest
		axis := len(a.shape) - 1
		for ; axis >= 0; axis-- {
			idx[axis]++
			off += a.strides[axis]
			if idx[axis] < a.shape[axis] {
				break
			}
			off -= idx[axis] * a.strides[axis]
			idx[axis] = 0
		}
		if axis < 0 {
			return
		}
	}
}

// Reshape returns an array with the same elements in a new shape.
// C-contiguous arrays are reshaped in place, others are copied first.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != a.Len() {
		return nil, errors.Errorf("ndarray: cannot reshape %d elements into shape %v", a.Len(), s)
	}
	src := a
	if !a.IsCContiguous() {
		src = a.Contiguous()
	}
	return &Array{
		dtype:   src.dtype,
		shape:   s.Clone(),
		strides: s.Strides(src.dtype.ItemSize),
		offset:  src.offset,
		buf:     src.buf,
	}, nil
}

// Slice returns a view of the elements start, start+step, ... below stop
// along axis. Bounds are clamped like python slices; step must be positive.
func (a *Array) Slice(axis, start, stop, step int) (*Array, error) {
	if axis < 0 || axis >= len(a.shape) {
		return nil, errors.Errorf("ndarray: axis %d out of range for %d dimensions", axis, len(a.shape))
	}
	if step <= 0 {
		return nil, errors.Errorf("ndarray: slice step must be positive, got %d", step)
	}

	n := a.shape[axis]
	start = clamp(start, n)
	stop = clamp(stop, n)
	count := 0
	if stop > start {
		count = (stop - start + step - 1) / step
	}

	v := &Array{
		dtype:   a.dtype,
		shape:   a.shape.Clone(),
		strides: a.Strides(),
		offset:  a.offset,
		buf:     a.buf,
	}
	if count > 0 {
		v.offset += start * a.strides[axis]
	}
	v.shape[axis] = count
	v.strides[axis] *= step
	return v, nil
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Transpose returns a view with the axes reversed.
func (a *Array) Transpose() *Array {
	v := &Array{
		dtype:   a.dtype,
		shape:   make(Shape, len(a.shape)),
		strides: make([]int, len(a.strides)),
		offset:  a.offset,
		buf:     a.buf,
	}
	for i := range a.shape {
		j := len(a.shape) - 1 - i
		v.shape[i] = a.shape[j]
		v.strides[i] = a.strides[j]
	}
	return v
}

// At returns the element at the given indices, decoded like Values.
func (a *Array) At(indices ...int) (interface{}, error) {
	if len(indices) != len(a.shape) {
		return nil, errors.Errorf("ndarray: expected %d indices, got %d", len(a.shape), len(indices))
	}
	off := a.offset
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			return nil, errors.Errorf("ndarray: index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i])
		}
		off += idx * a.strides[i]
	}
	return a.dtype.decode(a.buf[off : off+a.dtype.ItemSize]), nil
}

// Values returns every element in row-major order as a Go value:
// bool, int64, uint64, float64, complex128, []byte, string, or
// map[string]interface{} for structured dtypes.
func (a *Array) Values() []interface{} {
	out := make([]interface{}, 0, a.Len())
	a.each(func(off int) {
		out = append(out, a.dtype.decode(a.buf[off:off+a.dtype.ItemSize]))
	})
	return out
}

// Equal reports whether b has the same dtype, shape and elements as a.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.dtype.Equal(b.dtype) && a.shape.Equal(b.shape) && bytes.Equal(a.Bytes(), b.Bytes())
}

// Values converts the elements of a into a slice of T.
// The dtype of a must have the kind and size of T; its byte order may differ.
func Values[T Element](a *Array) ([]T, error) {
	want := TypeOf[T]()
	if a.dtype.Kind != want.Kind || a.dtype.ItemSize != want.ItemSize {
		return nil, errors.Errorf("ndarray: cannot read %s elements as %s", a.dtype, want)
	}

	data := a.Bytes()
	if a.dtype.Order != NotApplicable && a.dtype.Order != NativeOrder {
		data = a.dtype.swapped(data)
	}

	out := make([]T, a.Len())
	if len(out) > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(data)), data)
	}
	return out, nil
}
