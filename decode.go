// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import (
	"bufio"
	"io"
	"math"
	"reflect"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/ssbc/extpack/internal/gcpause"
)

// SequenceKind selects how decoded sequences are materialized.
type SequenceKind int

const (
	// AsList returns sequences as []interface{}.
	AsList SequenceKind = iota
	// AsTuple returns sequences as Tuple.
	AsTuple
)

type unpackOptions struct {
	seqs      SequenceKind
	suspendGC bool
}

// UnpackOption configures an Unpacker or a single Unpack call.
type UnpackOption func(*unpackOptions)

// WithSequences sets how decoded sequences are materialized.
func WithSequences(k SequenceKind) UnpackOption {
	return func(o *unpackOptions) { o.seqs = k }
}

// WithGCSuspended keeps the garbage collector off for the duration of a decode.
// Worth it for very large payloads with many small nested values.
func WithGCSuspended(suspend bool) UnpackOption {
	return func(o *unpackOptions) { o.suspendGC = suspend }
}

// Unpacker is the decode engine. Every decoded mapping with string keys is
// offered to the hooks of the registry before it is attached to its parent,
// so hooks see the already reconstructed values of inner mappings.
type Unpacker struct {
	reg  *DecodeRegistry
	h    *codec.MsgpackHandle
	opts unpackOptions
}

// NewUnpacker returns an Unpacker consulting reg. A nil reg means no hooks.
func NewUnpacker(reg *DecodeRegistry, opts ...UnpackOption) *Unpacker {
	if reg == nil {
		reg = NewDecodeRegistry()
	}
	u := &Unpacker{reg: reg, h: newHandle()}
	for _, o := range opts {
		o(&u.opts)
	}
	return u
}

// Unpack decodes the single value stored in data.
// opts override the options the Unpacker was created with.
func (u *Unpacker) Unpack(data []byte, opts ...UnpackOption) (v interface{}, err error) {
	o := u.opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.suspendGC {
		release := gcpause.Suspend()
		defer release()
	}

	dec := codec.NewDecoderBytes(data, u.h)
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &DecodeError{Offset: dec.NumBytesRead(), Err: err}
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return nil, &DecodeError{Offset: n, Err: errors.Errorf("%d trailing bytes", len(data)-n)}
	}

	r := raising{chain: u.reg.All(), seqs: o.seqs}
	return r.value(raw)
}

// Stream returns a Decoder reading successive values from r.
func (u *Unpacker) Stream(r io.Reader) Decoder {
	br := bufio.NewReader(r)
	return &streamDecoder{
		u:   u,
		br:  br,
		dec: codec.NewDecoder(br, u.h),
	}
}

type streamDecoder struct {
	u   *Unpacker
	br  *bufio.Reader
	dec *codec.Decoder
}

func (sd *streamDecoder) Decode() (interface{}, error) {
	// a clean end of stream is only possible between values
	if _, err := sd.br.Peek(1); err == io.EOF {
		return nil, io.EOF
	}

	if sd.u.opts.suspendGC {
		release := gcpause.Suspend()
		defer release()
	}

	var raw interface{}
	if err := sd.dec.Decode(&raw); err != nil {
		return nil, &DecodeError{Offset: sd.dec.NumBytesRead(), Err: err}
	}

	r := raising{chain: sd.u.reg.All(), seqs: sd.u.opts.seqs}
	return r.value(raw)
}

// raising rebuilds domain values from the generic tree the msgpack decoder
// produced, bottom up. chain is the hook snapshot for one decode call.
type raising struct {
	chain []DecodeFunc
	seqs  SequenceKind
}

func (r *raising) value(v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case nil, bool, string, []byte, int64, float64:
		return v, nil

	case uint64:
		if tv <= math.MaxInt64 {
			return int64(tv), nil
		}
		return tv, nil

	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, elem := range tv {
			rv, err := r.value(elem)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		if r.seqs == AsTuple {
			return Tuple(out), nil
		}
		return out, nil

	case map[interface{}]interface{}:
		return r.mapping(tv)
	}

	return nil, &DecodeError{Offset: -1, Err: errors.Errorf("unsupported wire value of type %T", v)}
}

func (r *raising) mapping(m map[interface{}]interface{}) (interface{}, error) {
	strKeys := true
	for k := range m {
		if _, ok := k.(string); !ok {
			strKeys = false
			break
		}
	}

	if !strKeys {
		out := make(map[interface{}]interface{}, len(m))
		for k, elem := range m {
			rk, err := r.value(k)
			if err != nil {
				return nil, err
			}
			if rk != nil && !reflect.TypeOf(rk).Comparable() {
				return nil, &DecodeError{Offset: -1, Err: errors.Errorf("unusable mapping key of type %T", rk)}
			}
			rv, err := r.value(elem)
			if err != nil {
				return nil, err
			}
			out[rk] = rv
		}
		return out, nil
	}

	out := make(map[string]interface{}, len(m))
	for k, elem := range m {
		rv, err := r.value(elem)
		if err != nil {
			return nil, err
		}
		out[k.(string)] = rv
	}

	for _, hook := range r.chain {
		v, ok, err := hook(out)
		if err != nil {
			if IsDependencyMissing(err) || IsDecodeError(err) {
				return nil, err
			}
			return nil, &DecodeError{Offset: -1, Err: err}
		}
		if ok {
			return v, nil
		}
	}
	return out, nil
}
