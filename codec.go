// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack // import "github.com/ssbc/extpack"

import (
	"io"

	"github.com/pkg/errors"
)

// Codec turns values into bytes and back.
type Codec interface {
	// Marshal encodes a single value and returns the serialized byte slice.
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal decodes and returns the value stored in data.
	Unmarshal(data []byte) (interface{}, error)

	NewDecoder(io.Reader) Decoder
	NewEncoder(io.Writer) Encoder
}

// Decoder reads successive values from a stream.
// Decode returns io.EOF once the stream is exhausted.
type Decoder interface {
	Decode() (interface{}, error)
}

// Encoder writes successive values to a stream.
type Encoder interface {
	Encode(v interface{}) error
}

// MsgpackCodec is the Codec made of a Packer and an Unpacker.
type MsgpackCodec struct {
	p *Packer
	u *Unpacker
}

var _ Codec = (*MsgpackCodec)(nil)

// NewCodec bundles p and u into a Codec.
func NewCodec(p *Packer, u *Unpacker) *MsgpackCodec {
	return &MsgpackCodec{p: p, u: u}
}

func (c *MsgpackCodec) Marshal(v interface{}) ([]byte, error) {
	return c.p.Pack(v)
}

func (c *MsgpackCodec) Unmarshal(data []byte) (interface{}, error) {
	return c.u.Unpack(data)
}

func (c *MsgpackCodec) NewEncoder(w io.Writer) Encoder {
	return &streamEncoder{p: c.p, w: w}
}

func (c *MsgpackCodec) NewDecoder(r io.Reader) Decoder {
	return c.u.Stream(r)
}

type streamEncoder struct {
	p *Packer
	w io.Writer
}

func (enc *streamEncoder) Encode(v interface{}) error {
	return errors.Wrap(enc.p.PackTo(enc.w, v), "extpack: stream encode failed")
}
