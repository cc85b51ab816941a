// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package ndarray

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the element kind character of an array-protocol type string.
type Kind byte

// Supported element kinds.
const (
	KindBool    Kind = 'b'
	KindInt     Kind = 'i'
	KindUint    Kind = 'u'
	KindFloat   Kind = 'f'
	KindComplex Kind = 'c'
	KindBytes   Kind = 'S'
	KindUnicode Kind = 'U'
	KindVoid    Kind = 'V'
)

// ByteOrder is the byte order character of an array-protocol type string.
type ByteOrder byte

// Byte orders. NotApplicable is used for single byte and raw byte kinds.
const (
	LittleEndian  ByteOrder = '<'
	BigEndian     ByteOrder = '>'
	NotApplicable ByteOrder = '|'
)

// NativeOrder is the byte order of the running machine.
var NativeOrder = func() ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// ErrUnsupportedDType is the cause of errors about type strings this package
// can't represent (objects, datetimes, ...).
var ErrUnsupportedDType = errors.New("ndarray: unsupported dtype")

// DType describes the layout of one array element.
type DType struct {
	Kind     Kind
	Order    ByteOrder
	ItemSize int

	// Fields is set for structured dtypes only. Their Kind is KindVoid.
	Fields []Field
}

// Field is one named member of a structured dtype.
// A non-empty Shape makes it a sub-array of Type.
type Field struct {
	Name  string
	Type  *DType
	Shape Shape
}

// Plain dtypes in native byte order.
var (
	Bool       = plain(KindBool, 1)
	Int8       = plain(KindInt, 1)
	Int16      = plain(KindInt, 2)
	Int32      = plain(KindInt, 4)
	Int64      = plain(KindInt, 8)
	Uint8      = plain(KindUint, 1)
	Uint16     = plain(KindUint, 2)
	Uint32     = plain(KindUint, 4)
	Uint64     = plain(KindUint, 8)
	Float32    = plain(KindFloat, 4)
	Float64    = plain(KindFloat, 8)
	Complex64  = plain(KindComplex, 8)
	Complex128 = plain(KindComplex, 16)
)

func plain(k Kind, size int) *DType {
	order := NativeOrder
	if size == 1 {
		order = NotApplicable
	}
	return &DType{Kind: k, Order: order, ItemSize: size}
}

// FixedBytes returns the dtype of byte strings of length n.
func FixedBytes(n int) *DType {
	return &DType{Kind: KindBytes, Order: NotApplicable, ItemSize: n}
}

// NewStruct returns a packed structured dtype made of fields.
// It fails if a field has an invalid shape or the item size overflows.
func NewStruct(fields ...Field) (*DType, error) {
	size, err := structSize(fields)
	if err != nil {
		return nil, err
	}
	return &DType{Kind: KindVoid, Order: NotApplicable, ItemSize: size, Fields: fields}, nil
}

// Struct is like NewStruct but panics on invalid fields.
func Struct(fields ...Field) *DType {
	dt, err := NewStruct(fields...)
	if err != nil {
		panic(err)
	}
	return dt
}

func structSize(fields []Field) (int, error) {
	size := 0
	for _, f := range fields {
		fs, err := f.checkedSize()
		if err != nil {
			return 0, err
		}
		var ok bool
		if size, ok = add(size, fs); !ok {
			return 0, errors.New("ndarray: structured dtype too large")
		}
	}
	return size, nil
}

func add(a, b int) (int, bool) {
	if b > math.MaxInt-a {
		return 0, false
	}
	return a + b, true
}

// validate checks the sizes of d, recursing into structured fields.
func (d *DType) validate() error {
	if d == nil {
		return errors.New("ndarray: nil dtype")
	}
	if d.ItemSize < 0 {
		return errors.Errorf("ndarray: negative item size %d", d.ItemSize)
	}
	if !d.IsStructured() {
		return nil
	}
	size, err := structSize(d.Fields)
	if err != nil {
		return err
	}
	if size != d.ItemSize {
		return errors.Errorf("ndarray: structured dtype of %d bytes has fields of %d bytes", d.ItemSize, size)
	}
	return nil
}

// IsStructured reports whether d has named fields.
func (d *DType) IsStructured() bool { return d.Fields != nil }

// WithOrder returns a copy of d using byte order o.
// Single byte and structured dtypes are returned unchanged.
func (d *DType) WithOrder(o ByteOrder) *DType {
	if d.Order == NotApplicable || d.IsStructured() {
		return d
	}
	cp := *d
	cp.Order = o
	return &cp
}

// ParseDType parses an array-protocol type string like "<f8", "|u1" or "<U3".
func ParseDType(s string) (*DType, error) {
	if len(s) < 2 {
		return nil, errors.Errorf("ndarray: type string %q too short", s)
	}

	order := ByteOrder('=')
	switch s[0] {
	case '<', '>', '|', '=':
		order = ByteOrder(s[0])
		s = s[1:]
	}
	if len(s) < 2 {
		return nil, errors.Errorf("ndarray: type string %q too short", s)
	}

	kind := Kind(s[0])
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 {
		return nil, errors.Errorf("ndarray: invalid item size in type string %q", s)
	}

	size := n
	switch kind {
	case KindBool:
		if n != 1 {
			return nil, errors.Errorf("ndarray: bool of size %d", n)
		}
	case KindInt, KindUint:
		if n != 1 && n != 2 && n != 4 && n != 8 {
			return nil, errors.Wrapf(ErrUnsupportedDType, "integer of size %d", n)
		}
	case KindFloat:
		if n != 2 && n != 4 && n != 8 {
			return nil, errors.Wrapf(ErrUnsupportedDType, "float of size %d", n)
		}
	case KindComplex:
		if n != 8 && n != 16 {
			return nil, errors.Wrapf(ErrUnsupportedDType, "complex of size %d", n)
		}
	case KindUnicode:
		if n > math.MaxInt/4 {
			return nil, errors.Errorf("ndarray: unicode length %d too large", n)
		}
		size = 4 * n
	case KindBytes, KindVoid:
	default:
		return nil, errors.Wrapf(ErrUnsupportedDType, "kind %q", string(kind))
	}

	switch {
	case order == '=':
		order = NativeOrder
		if size <= 1 || kind == KindBytes || kind == KindVoid {
			order = NotApplicable
		}
	case size <= 1 && kind != KindUnicode:
		order = NotApplicable
	case kind == KindBytes || kind == KindVoid:
		order = NotApplicable
	}

	return &DType{Kind: kind, Order: order, ItemSize: size}, nil
}

// FromDescr builds a dtype from a type string or from a structured description:
// a list of [name, type] or [name, type, shape] entries, where type is again a
// type string or a nested description. Names and type strings may be given as
// string or []byte.
func FromDescr(descr interface{}) (*DType, error) {
	switch d := descr.(type) {
	case string:
		return ParseDType(d)
	case []byte:
		return ParseDType(string(d))
	case []interface{}:
		fields := make([]Field, len(d))
		for i, entry := range d {
			f, err := parseField(entry)
			if err != nil {
				return nil, errors.Wrapf(err, "ndarray: field %d", i)
			}
			fields[i] = f
		}
		return NewStruct(fields...)
	}
	return nil, errors.Errorf("ndarray: invalid dtype description of type %T", descr)
}

func parseField(entry interface{}) (Field, error) {
	parts, ok := entry.([]interface{})
	if !ok || len(parts) < 2 || len(parts) > 3 {
		return Field{}, errors.Errorf("expected [name, type] or [name, type, shape], got %v", entry)
	}

	var f Field
	switch name := parts[0].(type) {
	case string:
		f.Name = name
	case []byte:
		f.Name = string(name)
	default:
		return Field{}, errors.Errorf("invalid field name of type %T", parts[0])
	}

	var err error
	f.Type, err = FromDescr(parts[1])
	if err != nil {
		return Field{}, err
	}

	if len(parts) == 3 {
		f.Shape, err = ShapeOf(parts[2])
		if err != nil {
			return Field{}, err
		}
	}
	return f, nil
}

// String returns the array-protocol type string. Structured dtypes are
// reported as raw void of their item size.
func (d *DType) String() string {
	n := d.ItemSize
	if d.Kind == KindUnicode {
		n /= 4
	}
	return fmt.Sprintf("%c%c%d", d.Order, d.Kind, n)
}

// Descr returns the type string for plain dtypes and the field description
// list for structured ones; the inverse of FromDescr.
func (d *DType) Descr() interface{} {
	if !d.IsStructured() {
		return d.String()
	}
	out := make([]interface{}, len(d.Fields))
	for i, f := range d.Fields {
		entry := []interface{}{f.Name, f.Type.Descr()}
		if len(f.Shape) > 0 {
			shape := make([]interface{}, len(f.Shape))
			for j, n := range f.Shape {
				shape[j] = int64(n)
			}
			entry = append(entry, shape)
		}
		out[i] = entry
	}
	return out
}

// Equal reports whether d and o describe the same layout.
func (d *DType) Equal(o *DType) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	if d.Kind != o.Kind || d.ItemSize != o.ItemSize || d.Order != o.Order {
		return false
	}
	if len(d.Fields) != len(o.Fields) || d.IsStructured() != o.IsStructured() {
		return false
	}
	for i := range d.Fields {
		a, b := d.Fields[i], o.Fields[i]
		if a.Name != b.Name || !a.Type.Equal(b.Type) || !a.Shape.Equal(b.Shape) {
			return false
		}
	}
	return true
}

// size is the byte size of a field of a validated dtype.
func (f Field) size() int {
	return f.Type.ItemSize * f.Shape.NumElements()
}

func (f Field) checkedSize() (int, error) {
	if err := f.Type.validate(); err != nil {
		return 0, errors.Wrapf(err, "ndarray: field %q", f.Name)
	}
	n, err := f.Shape.byteSize(f.Type.ItemSize)
	if err != nil {
		return 0, errors.Wrapf(err, "ndarray: field %q", f.Name)
	}
	return n, nil
}

// Element is the set of Go types with a plain dtype.
type Element interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// TypeOf returns the native order dtype for T.
func TypeOf[T Element]() *DType {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		return Uint16
	case reflect.Uint32:
		return Uint32
	case reflect.Uint64:
		return Uint64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Complex64:
		return Complex64
	default:
		return Complex128
	}
}
