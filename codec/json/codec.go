// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package json is a Codec writing JSON. It has no hooks: values must be
// something encoding/json can handle.
package json // import "github.com/ssbc/extpack/codec/json"

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/ssbc/extpack"
)

// NewCodec creates a json codec that decodes into values of type tipe.
// With a nil tipe values are decoded into interface{}.
func NewCodec(tipe interface{}) extpack.Codec {
	if tipe == nil {
		return &codec{any: true}
	}

	t := reflect.TypeOf(tipe)
	isPtr := t.Kind() == reflect.Ptr
	if isPtr {
		t = t.Elem()
	}

	return &codec{
		tipe:  t,
		asPtr: isPtr,
	}
}

type codec struct {
	tipe  reflect.Type
	asPtr bool
	any   bool
}

func (*codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *codec) Unmarshal(data []byte) (interface{}, error) {
	return c.decode(func(v interface{}) error {
		return json.Unmarshal(data, v)
	})
}

func (c *codec) decode(fn func(interface{}) error) (interface{}, error) {
	if c.any {
		var v interface{}
		err := fn(&v)
		return v, err
	}

	ptr := reflect.New(c.tipe)
	if err := fn(ptr.Interface()); err != nil {
		return nil, err
	}
	if c.asPtr {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

func (*codec) NewEncoder(w io.Writer) extpack.Encoder {
	return json.NewEncoder(w)
}

func (c *codec) NewDecoder(r io.Reader) extpack.Decoder {
	return &decoder{
		c:   c,
		dec: json.NewDecoder(r),
	}
}

type decoder struct {
	c   *codec
	dec *json.Decoder
}

func (dec *decoder) Decode() (interface{}, error) {
	return dec.c.decode(dec.dec.Decode)
}
