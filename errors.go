// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// ErrMaxDepth is the cause of an EncodeError for values nested (or re-wrapped by
// handlers) deeper than the encoder allows.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// EncodeError is returned when a value has no primitive, handler or normalized
// representation, or when an encode handler failed.
type EncodeError struct {
	Type reflect.Type
	Err  error
}

func (e *EncodeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("extpack: cannot encode value of type %s: %s", name, e.Err)
	}
	return fmt.Sprintf("extpack: cannot encode value of type %s", name)
}

func (e *EncodeError) Cause() error  { return e.Err }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError is returned for truncated or structurally invalid input, and for
// records a decode handler could not make sense of.
type DecodeError struct {
	// Offset is the number of bytes consumed when the error was detected, -1 if unknown.
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("extpack: decode failed at byte %d: %s", e.Offset, e.Err)
	}
	return fmt.Sprintf("extpack: decode failed: %s", e.Err)
}

func (e *DecodeError) Cause() error  { return e.Err }
func (e *DecodeError) Unwrap() error { return e.Err }

// DependencyMissingError is returned by decode handlers that need a capability
// which is not available in this process.
type DependencyMissingError struct {
	Capability string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("extpack: %s support is required to decode this value but is not available", e.Capability)
}

// NotFoundError is returned when deregistering an unknown handler name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("extpack: no handler registered under %q", e.Name)
}

// IsEncodeError returns whether err is, or wraps, an EncodeError.
func IsEncodeError(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}

// IsDecodeError returns whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsDependencyMissing returns whether err is, or wraps, a DependencyMissingError.
func IsDependencyMissing(err error) bool {
	var e *DependencyMissingError
	return errors.As(err, &e)
}

// IsNotFound returns whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
