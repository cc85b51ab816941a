// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import "reflect"

// Tuple is a fixed-arity sequence. It encodes exactly like a []interface{}
// holding the same elements, and the Unpacker can be asked to return decoded
// sequences as Tuples.
type Tuple []interface{}

var (
	byteType  = reflect.TypeOf(byte(0))
	bytesType = reflect.TypeOf([]byte(nil))
)

var baseTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
	reflect.String:  reflect.TypeOf(""),
}

// normalize reduces a value that is almost a wire type to that wire type,
// dropping the identity of its named type. It reports false for values it
// can't reduce: structs, bool-kind named types, complex numbers, funcs and
// channels.
func normalize(v interface{}) (interface{}, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}

	switch kind := rv.Kind(); kind {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, true
		}
		return rv.Elem().Interface(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return rv.Convert(baseTypes[kind]).Interface(), true

	case reflect.Slice:
		if rv.Type().Elem() == byteType {
			if rv.IsNil() {
				return []byte(nil), true
			}
			return append([]byte{}, rv.Convert(bytesType).Bytes()...), true
		}
		return sequence(rv), true

	case reflect.Array:
		if rv.Type().Elem() == byteType {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, true
		}
		return sequence(rv), true

	case reflect.Map:
		if rv.IsNil() {
			return map[string]interface{}(nil), true
		}
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]interface{}, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = iter.Value().Interface()
			}
			return out, true
		}
		out := make(map[interface{}]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().Interface()] = iter.Value().Interface()
		}
		return out, true
	}

	return nil, false
}

func sequence(rv reflect.Value) []interface{} {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
