// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package gcpause turns the garbage collector off while large payloads are
// decoded. Scopes nest and may overlap between goroutines: the collector is
// switched off by the first scope and set back to what it was before that
// scope once the last one is released.
package gcpause

import (
	"runtime/debug"
	"sync"
)

var (
	mu     sync.Mutex
	active int
	prev   int
)

// Suspend disables the garbage collector until the returned release func is
// called. Calling release more than once has no further effect.
func Suspend() (release func()) {
	mu.Lock()
	if active == 0 {
		prev = debug.SetGCPercent(-1)
	}
	active++
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			active--
			if active == 0 {
				debug.SetGCPercent(prev)
			}
		})
	}
}

// Active returns the number of scopes currently holding the collector off.
func Active() int {
	mu.Lock()
	defer mu.Unlock()
	return active
}
