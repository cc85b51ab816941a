// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

//go:build !noarray
// +build !noarray

package ndarray

// DefaultRuntime returns the array runtime of this build.
func DefaultRuntime() Runtime {
	return native{}
}
