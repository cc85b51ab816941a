// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import (
	"io"
	"math"
	"reflect"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// maxDepth bounds nesting, including handler outputs that get lowered again.
const maxDepth = 512

// Packer is the encode engine.
//
// Values the wire format supports natively are written as they are. Everything
// else is offered to the hooks of the registry, in registration order, and
// finally to the normalization fallback. Only exact built-in types count as
// native: a named type like `type Celsius float64` is never written silently,
// it reaches the hooks first and is only then reduced to float64.
type Packer struct {
	reg *EncodeRegistry
	h   *codec.MsgpackHandle
}

// NewPacker returns a Packer consulting reg. A nil reg means no hooks.
func NewPacker(reg *EncodeRegistry) *Packer {
	if reg == nil {
		reg = NewEncodeRegistry()
	}
	return &Packer{reg: reg, h: newHandle()}
}

// Pack encodes v.
func (p *Packer) Pack(v interface{}) ([]byte, error) {
	tree, err := p.lower(v)
	if err != nil {
		return nil, err
	}

	var out []byte
	if err := codec.NewEncoderBytes(&out, p.h).Encode(tree); err != nil {
		return nil, &EncodeError{Type: reflect.TypeOf(v), Err: err}
	}
	return out, nil
}

// PackTo encodes v and writes it to w.
func (p *Packer) PackTo(w io.Writer, v interface{}) error {
	data, err := p.Pack(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "extpack: failed to write encoded value")
}

func (p *Packer) lower(v interface{}) (interface{}, error) {
	l := lowering{chain: p.reg.All()}
	return l.value(v, 0)
}

// lowering turns a value graph into one made of exact wire types only.
// chain is the hook snapshot for one Pack call.
type lowering struct {
	chain []EncodeFunc
}

func (l *lowering) value(v interface{}, depth int) (interface{}, error) {
	if depth > maxDepth {
		return nil, &EncodeError{Type: reflect.TypeOf(v), Err: ErrMaxDepth}
	}

	switch tv := v.(type) {
	case nil, bool, string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil

	case []interface{}:
		if tv == nil {
			return nil, nil
		}
		out := make([]interface{}, len(tv))
		for i, elem := range tv {
			lv, err := l.value(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = lv
		}
		return out, nil

	case map[string]interface{}:
		if tv == nil {
			return nil, nil
		}
		out := make(map[string]interface{}, len(tv))
		for k, elem := range tv {
			lv, err := l.value(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = lv
		}
		return out, nil

	case map[interface{}]interface{}:
		if tv == nil {
			return nil, nil
		}
		out := make(map[interface{}]interface{}, len(tv))
		seen := make(map[interface{}]struct{}, len(tv))
		for k, elem := range tv {
			lk, err := l.key(k, depth+1)
			if err != nil {
				return nil, err
			}
			wk := wireKey(lk)
			if _, dup := seen[wk]; dup {
				return nil, &EncodeError{Type: reflect.TypeOf(k), Err: errors.Errorf("duplicate mapping key %#v after lowering", lk)}
			}
			seen[wk] = struct{}{}
			lv, err := l.value(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[lk] = lv
		}
		return out, nil
	}

	for _, hook := range l.chain {
		out, ok, err := hook(v)
		if err != nil {
			return nil, &EncodeError{Type: reflect.TypeOf(v), Err: err}
		}
		if ok {
			return l.value(out, depth+1)
		}
	}

	if nv, ok := normalize(v); ok {
		return l.value(nv, depth+1)
	}

	return nil, &EncodeError{Type: reflect.TypeOf(v)}
}

// key lowers a key of a map[interface{}]interface{}. Lowered keys have to stay
// comparable, so containers are refused.
func (l *lowering) key(k interface{}, depth int) (interface{}, error) {
	lk, err := l.value(k, depth)
	if err != nil {
		return nil, err
	}
	switch lk.(type) {
	case []interface{}, map[string]interface{}, map[interface{}]interface{}:
		return nil, &EncodeError{Type: reflect.TypeOf(k), Err: errors.New("unusable as mapping key")}
	case []byte:
		return string(lk.([]byte)), nil
	}
	return lk, nil
}

// wireKey maps a lowered key to the value it is written as. Integers of
// different Go types but equal value end up as the same msgpack integer.
func wireKey(k interface{}) interface{} {
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u > math.MaxInt64 {
			return u
		}
		return int64(rv.Uint())
	}
	return k
}
