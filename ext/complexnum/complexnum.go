// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package complexnum writes complex numbers as a text record:
//
//	{"complex": true, "data": "(1.5+2i)"}
//
// The text is the shortest representation that parses back to the same
// complex128. complex64 values are widened first, so they round-trip exactly
// too, but decode as complex128.
package complexnum

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Name is the registry name of the handler pair.
const Name = "complex"

const (
	keyMarker       = "complex"
	keyLegacyMarker = "is_complex"
	keyData         = "data"
	keyLegacyData   = "text"
)

// Encode lowers values of complex kind, named types included.
func Encode(v interface{}) (interface{}, bool, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false, nil
	}
	switch rv.Kind() {
	case reflect.Complex64, reflect.Complex128:
	default:
		return nil, false, nil
	}
	return map[string]interface{}{
		keyMarker: true,
		keyData:   Format(rv.Complex()),
	}, true, nil
}

// Decode turns complex records back into complex128 values.
func Decode(m map[string]interface{}) (interface{}, bool, error) {
	marker, ok := m[keyMarker]
	if !ok {
		marker, ok = m[keyLegacyMarker]
	}
	if isSet, _ := marker.(bool); !ok || !isSet {
		return nil, false, nil
	}

	raw, ok := m[keyData]
	if !ok {
		raw = m[keyLegacyData]
	}
	var text string
	switch t := raw.(type) {
	case string:
		text = t
	case []byte:
		text = string(t)
	default:
		return nil, false, errors.Errorf("complexnum: text of type %T", raw)
	}

	c, err := Parse(text)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Format returns the text form of c.
func Format(c complex128) string {
	return strconv.FormatComplex(c, 'g', -1, 128)
}

// Parse reads the text form of a complex number. Besides the output of Format
// it accepts a "j" imaginary unit, as written by python.
func Parse(text string) (complex128, error) {
	s := strings.TrimSpace(text)
	body := strings.TrimSuffix(s, ")")
	if strings.HasSuffix(body, "j") {
		s = body[:len(body)-1] + "i" + s[len(body):]
	}
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, errors.Wrapf(err, "complexnum: invalid text %q", text)
	}
	return c, nil
}
