// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

// Runtime builds arrays and scalars from decoded wire data. Codecs that need
// one take it as a parameter so builds without array support can pass nil.
type Runtime interface {
	FromBuffer(dt *DType, shape Shape, data []byte) (*Array, error)
	ScalarFromBuffer(dt *DType, data []byte) (*Scalar, error)
}

type native struct{}

func (native) FromBuffer(dt *DType, shape Shape, data []byte) (*Array, error) {
	// decoded buffers may alias the input, own them
	return FromBuffer(dt, shape, append([]byte{}, data...))
}

func (native) ScalarFromBuffer(dt *DType, data []byte) (*Scalar, error) {
	return NewScalar(dt, data)
}
