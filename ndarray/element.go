// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// decode turns the bytes of one element into a Go value:
// bool, int64, uint64, float64, complex128, []byte (S and V kinds),
// string (U kind) or map[string]interface{} for structured dtypes.
func (d *DType) decode(b []byte) interface{} {
	if d.IsStructured() {
		out := make(map[string]interface{}, len(d.Fields))
		off := 0
		for _, f := range d.Fields {
			size := f.size()
			fb := b[off : off+size]
			if len(f.Shape) == 0 {
				out[f.Name] = f.Type.decode(fb)
			} else {
				n := f.Shape.NumElements()
				elems := make([]interface{}, n)
				for i := range elems {
					elems[i] = f.Type.decode(fb[i*f.Type.ItemSize : (i+1)*f.Type.ItemSize])
				}
				out[f.Name] = elems
			}
			off += size
		}
		return out
	}

	bo := d.Order.binary()
	switch d.Kind {
	case KindBool:
		return b[0] != 0
	case KindInt:
		switch d.ItemSize {
		case 1:
			return int64(int8(b[0]))
		case 2:
			return int64(int16(bo.Uint16(b)))
		case 4:
			return int64(int32(bo.Uint32(b)))
		default:
			return int64(bo.Uint64(b))
		}
	case KindUint:
		switch d.ItemSize {
		case 1:
			return uint64(b[0])
		case 2:
			return uint64(bo.Uint16(b))
		case 4:
			return uint64(bo.Uint32(b))
		default:
			return bo.Uint64(b)
		}
	case KindFloat:
		return decodeFloat(bo, b)
	case KindComplex:
		half := d.ItemSize / 2
		return complex(decodeFloat(bo, b[:half]), decodeFloat(bo, b[half:]))
	case KindBytes:
		return append([]byte{}, bytes.TrimRight(b, "\x00")...)
	case KindUnicode:
		var sb []byte
		for i := 0; i+4 <= len(b); i += 4 {
			r := rune(bo.Uint32(b[i:]))
			if r == 0 {
				break
			}
			sb = utf8.AppendRune(sb, r)
		}
		return string(sb)
	}
	return append([]byte{}, b...)
}

func decodeFloat(bo binary.ByteOrder, b []byte) float64 {
	switch len(b) {
	case 2:
		return halfToFloat(bo.Uint16(b))
	case 4:
		return float64(math.Float32frombits(bo.Uint32(b)))
	default:
		return math.Float64frombits(bo.Uint64(b))
	}
}

// halfToFloat converts an IEEE 754 binary16 value.
func halfToFloat(h uint16) float64 {
	sign := 1.0
	if h&0x8000 != 0 {
		sign = -1.0
	}
	exp := int(h>>10) & 0x1f
	frac := float64(h & 0x3ff)

	switch exp {
	case 0:
		return sign * math.Ldexp(frac, -24)
	case 0x1f:
		if frac != 0 {
			return math.NaN()
		}
		return math.Inf(int(sign))
	}
	return sign * math.Ldexp(1+frac/1024, exp-15)
}

// swapped returns a copy of b with every element of dtype d byte swapped.
// Complex elements swap their two halves independently.
func (d *DType) swapped(b []byte) []byte {
	out := append([]byte{}, b...)
	width := d.ItemSize
	if d.Kind == KindComplex {
		width /= 2
	}
	if d.Kind == KindUnicode {
		width = 4
	}
	if width <= 1 {
		return out
	}
	for i := 0; i+width <= len(out); i += width {
		w := out[i : i+width]
		for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
			w[l], w[r] = w[r], w[l]
		}
	}
	return out
}
