// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"bytes"

	"github.com/pkg/errors"
)

// Scalar is a single typed element outside of an array.
// Unlike a 0-d or shape (1,) Array it carries no shape at all.
type Scalar struct {
	dtype *DType
	data  []byte
}

// NewScalar wraps the raw bytes of one element of dtype dt.
func NewScalar(dt *DType, data []byte) (*Scalar, error) {
	if err := dt.validate(); err != nil {
		return nil, err
	}
	if len(data) != dt.ItemSize {
		return nil, errors.Errorf("ndarray: scalar of %s needs %d bytes, got %d", dt, dt.ItemSize, len(data))
	}
	return &Scalar{dtype: dt, data: append([]byte{}, data...)}, nil
}

// ScalarOf returns the native order scalar holding v.
func ScalarOf[T Element](v T) *Scalar {
	dt := TypeOf[T]()
	return &Scalar{dtype: dt, data: asBytes([]T{v}, dt.ItemSize)}
}

// DType returns the element dtype.
func (s *Scalar) DType() *DType { return s.dtype }

// Bytes returns the raw element bytes.
func (s *Scalar) Bytes() []byte { return s.data }

// Value decodes the element, see Array.Values for the possible types.
func (s *Scalar) Value() interface{} { return s.dtype.decode(s.data) }

// Equal reports whether o has the same dtype and bytes.
func (s *Scalar) Equal(o *Scalar) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.dtype.Equal(o.dtype) && bytes.Equal(s.data, o.data)
}
