// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package dense implements the wire record for n-dimensional arrays and
// numeric scalars.
//
// An array is written as
//
//	{"nd": true, "type": "<f8", "shape": [2, 3], "data": <bin>}
//
// where data holds the elements densely packed in row-major order and type is
// the array-protocol type string of the elements. Structured element types are
// written as a field description list and get an additional "kind": "V".
// A scalar carries no shape and nd is false.
//
// Records written by older producers that use "is_array" as the marker
// are understood as well.
package dense

import (
	"github.com/pkg/errors"

	"github.com/ssbc/extpack"
	"github.com/ssbc/extpack/ndarray"
)

// Name is the registry name of the handler pair.
const Name = "ndarray"

// Capability is reported in a DependencyMissingError when no array runtime
// is available to rebuild a record.
const Capability = "ndarray"

const (
	keyMarker       = "nd"
	keyLegacyMarker = "is_array"
	keyType         = "type"
	keyKind         = "kind"
	keyShape        = "shape"
	keyData         = "data"
)

var structuredKind = []byte("V")

// Encode lowers *ndarray.Array and *ndarray.Scalar values to their wire record.
func Encode(v interface{}) (interface{}, bool, error) {
	switch tv := v.(type) {
	case *ndarray.Array:
		if tv == nil {
			return nil, true, nil
		}
		return encodeArray(tv), true, nil

	case *ndarray.Scalar:
		if tv == nil {
			return nil, true, nil
		}
		return map[string]interface{}{
			keyMarker: false,
			keyType:   tv.DType().Descr(),
			keyData:   tv.Bytes(),
		}, true, nil
	}
	return nil, false, nil
}

func encodeArray(a *ndarray.Array) map[string]interface{} {
	dt := a.DType()

	shape := a.Shape()
	dims := make([]interface{}, len(shape))
	for i, n := range shape {
		dims[i] = int64(n)
	}

	rec := map[string]interface{}{
		keyMarker: true,
		keyType:   dt.Descr(),
		keyShape:  dims,
		// Bytes copies views that are not C-contiguous
		keyData: a.Bytes(),
	}
	if dt.IsStructured() {
		rec[keyKind] = structuredKind
	}
	return rec
}

// Decode rebuilds arrays and scalars using the default runtime.
func Decode(m map[string]interface{}) (interface{}, bool, error) {
	return decode(ndarray.DefaultRuntime(), m)
}

// NewDecode returns a decode handler building values with rt.
// If rt is nil, records are refused with a DependencyMissingError.
func NewDecode(rt ndarray.Runtime) extpack.DecodeFunc {
	return func(m map[string]interface{}) (interface{}, bool, error) {
		return decode(rt, m)
	}
}

func decode(rt ndarray.Runtime, m map[string]interface{}) (interface{}, bool, error) {
	marker, ok := m[keyMarker]
	if !ok {
		marker, ok = m[keyLegacyMarker]
	}
	if !ok {
		return nil, false, nil
	}
	isArray, ok := marker.(bool)
	if !ok {
		return nil, false, nil
	}

	if rt == nil {
		return nil, false, &extpack.DependencyMissingError{Capability: Capability}
	}

	rawData, ok := m[keyData]
	if !ok {
		return nil, false, errors.New("dense: record without data")
	}
	data, err := rawBytes(rawData)
	if err != nil {
		return nil, false, err
	}

	typ, ok := m[keyType]
	if !ok {
		return nil, false, errors.New("dense: record without type")
	}
	dt, err := ndarray.FromDescr(lists(typ))
	if err != nil {
		return nil, false, errors.Wrap(err, "dense: invalid type")
	}
	if k, has := m[keyKind]; has && isStructuredKind(k) && !dt.IsStructured() {
		return nil, false, errors.Errorf("dense: kind V with plain type %s", dt)
	}

	if !isArray {
		s, err := rt.ScalarFromBuffer(dt, data)
		if err != nil {
			return nil, false, errors.Wrap(err, "dense: invalid scalar")
		}
		return s, true, nil
	}

	rawShape, ok := m[keyShape]
	if !ok {
		return nil, false, errors.New("dense: array record without shape")
	}
	shape, err := ndarray.ShapeOf(lists(rawShape))
	if err != nil {
		return nil, false, errors.Wrap(err, "dense: invalid shape")
	}

	arr, err := rt.FromBuffer(dt, shape, data)
	if err != nil {
		return nil, false, errors.Wrap(err, "dense: invalid array")
	}
	return arr, true, nil
}

func rawBytes(v interface{}) ([]byte, error) {
	switch d := v.(type) {
	case []byte:
		return d, nil
	case string:
		return []byte(d), nil
	case nil:
		return nil, nil
	}
	return nil, errors.Errorf("dense: data of type %T", v)
}

func isStructuredKind(v interface{}) bool {
	switch k := v.(type) {
	case []byte:
		return string(k) == "V"
	case string:
		return k == "V"
	}
	return false
}

// lists turns tuples into plain lists, recursively, so descriptions decoded
// with either sequence kind look the same.
func lists(v interface{}) interface{} {
	var elems []interface{}
	switch tv := v.(type) {
	case extpack.Tuple:
		elems = tv
	case []interface{}:
		elems = tv
	default:
		return v
	}
	out := make([]interface{}, len(elems))
	for i, e := range elems {
		out[i] = lists(e)
	}
	return out
}
