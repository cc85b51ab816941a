// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

//go:build noarray
// +build noarray

package ndarray

// DefaultRuntime returns nil: this build has no array support.
func DefaultRuntime() Runtime {
	return nil
}
