// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"math"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of an array. An empty shape is a 0-d array
// holding exactly one element.
type Shape []int

// NumElements returns the total number of elements.
// The result is only meaningful for shapes that passed Validate.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative and that the number of
// elements fits an int.
func (s Shape) Validate() error {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return errors.Errorf("ndarray: invalid dimension at index %d: %d", i, dim)
		}
		var ok bool
		if n, ok = mul(n, dim); !ok {
			return errors.Errorf("ndarray: shape %v has too many elements", []int(s))
		}
	}
	return nil
}

// byteSize returns the size of a dense array of this shape.
func (s Shape) byteSize(itemSize int) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if itemSize < 0 {
		return 0, errors.Errorf("ndarray: negative item size %d", itemSize)
	}
	n, ok := mul(s.NumElements(), itemSize)
	if !ok {
		return 0, errors.Errorf("ndarray: shape %v of %d byte items is too large", []int(s), itemSize)
	}
	return n, nil
}

// mul multiplies two non-negative ints, ok is false on overflow.
func mul(a, b int) (int, bool) {
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides returns the row-major byte strides of a dense array of this shape.
func (s Shape) Strides(itemSize int) []int {
	strides := make([]int, len(s))
	acc := itemSize
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// ShapeOf converts a decoded sequence of integers into a Shape.
// A bare integer is taken as a 1-d shape.
func ShapeOf(v interface{}) (Shape, error) {
	switch tv := v.(type) {
	case []interface{}:
		s := make(Shape, len(tv))
		for i, d := range tv {
			n, err := dim(d)
			if err != nil {
				return nil, errors.Wrapf(err, "ndarray: shape index %d", i)
			}
			s[i] = n
		}
		return s, nil
	case []int:
		return Shape(tv).Clone(), nil
	case Shape:
		return tv.Clone(), nil
	}
	n, err := dim(v)
	if err != nil {
		return nil, errors.Wrap(err, "ndarray: invalid shape")
	}
	return Shape{n}, nil
}

func dim(v interface{}) (int, error) {
	switch n := v.(type) {
	case int64:
		if n >= 0 && n <= math.MaxInt32 {
			return int(n), nil
		}
	case uint64:
		if n <= math.MaxInt32 {
			return int(n), nil
		}
	case int:
		if n >= 0 {
			return n, nil
		}
	default:
		return 0, errors.Errorf("dimension of type %T", v)
	}
	return 0, errors.Errorf("dimension %v out of range", v)
}
