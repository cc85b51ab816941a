// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package msgpack is the ready to use msgpack codec: the shared hook registries
// with array and complex number support installed, and helpers to encode to
// and decode from bytes, streams and files.
//
// Third party types are supported by registering a hook pair:
//
//	msgpack.Encoders.Register("point", encodePoint)
//	msgpack.Decoders.Register("point", decodePoint)
package msgpack // import "github.com/ssbc/extpack/codec/msgpack"

import (
	"io"
	"os"

	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"

	"github.com/ssbc/extpack"
	"github.com/ssbc/extpack/ext/complexnum"
	"github.com/ssbc/extpack/ext/dense"
)

// Encoders and Decoders are the registries every function of this package
// consults.
var (
	Encoders = extpack.NewEncodeRegistry()
	Decoders = extpack.NewDecodeRegistry()
)

func init() {
	// arrays of complex numbers belong to dense, so it goes first
	Encoders.Register(dense.Name, dense.Encode)
	Decoders.Register(dense.Name, dense.Decode)

	Encoders.Register(complexnum.Name, complexnum.Encode)
	Decoders.Register(complexnum.Name, complexnum.Decode)
}

// New returns a Codec using the shared registries.
func New(opts ...extpack.UnpackOption) extpack.Codec {
	return extpack.NewCodec(extpack.NewPacker(Encoders), extpack.NewUnpacker(Decoders, opts...))
}

// Dumps encodes v.
func Dumps(v interface{}) ([]byte, error) {
	return extpack.NewPacker(Encoders).Pack(v)
}

// Loads decodes the single value in data. The garbage collector is paused
// while it runs, pass WithGCSuspended(false) to keep it going.
func Loads(data []byte, opts ...extpack.UnpackOption) (interface{}, error) {
	opts = append([]extpack.UnpackOption{extpack.WithGCSuspended(true)}, opts...)
	return extpack.NewUnpacker(Decoders).Unpack(data, opts...)
}

// Dump encodes v and writes it to w.
func Dump(w io.Writer, v interface{}) error {
	return extpack.NewPacker(Encoders).PackTo(w, v)
}

// Load reads r until EOF and decodes the single value it held.
func Load(r io.Reader, opts ...extpack.UnpackOption) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "msgpack: failed to read input")
	}
	return Loads(data, opts...)
}

// WriteFile encodes v into the file at path. The file is replaced atomically,
// readers never see a partial encoding.
func WriteFile(path string, v interface{}) error {
	data, err := Dumps(v)
	if err != nil {
		return err
	}
	err = atomicwriter.WriteFile(path, data, 0o644)
	return errors.Wrapf(err, "msgpack: failed to write %s", path)
}

// ReadFile decodes the value stored in the file at path.
func ReadFile(path string, opts ...extpack.UnpackOption) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "msgpack: failed to read %s", path)
	}
	v, err := Loads(data, opts...)
	return v, errors.Wrapf(err, "msgpack: failed to decode %s", path)
}
