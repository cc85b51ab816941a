// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import (
	"reflect"

	"github.com/ugorji/go/codec"
)

var (
	intfMapType   = reflect.TypeOf(map[interface{}]interface{}(nil))
	intfSliceType = reflect.TypeOf([]interface{}(nil))
)

// newHandle returns the msgpack handle both engines run on.
// It is configured once and only read afterwards, so it can be shared.
func newHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{
		// str and bin are distinct on the wire
		WriteExt: true,
	}
	h.Canonical = true
	h.RawToString = false
	h.MapType = intfMapType
	h.SliceType = intfSliceType
	return h
}
