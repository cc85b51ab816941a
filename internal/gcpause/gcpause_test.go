// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package gcpause

import (
	"runtime/debug"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// gcPercent reads the current setting without changing it.
func gcPercent() int {
	p := debug.SetGCPercent(-1)
	debug.SetGCPercent(p)
	return p
}

func TestNested(t *testing.T) {
	r := require.New(t)

	old := debug.SetGCPercent(80)
	defer debug.SetGCPercent(old)

	outer := Suspend()
	r.Equal(-1, gcPercent())
	r.Equal(1, Active())

	inner := Suspend()
	r.Equal(2, Active())
	inner()
	r.Equal(-1, gcPercent(), "inner release must not turn the collector back on")

	// releasing twice is harmless
	inner()
	r.Equal(1, Active())

	outer()
	r.Equal(0, Active())
	r.Equal(80, gcPercent())
}

func TestAlreadyDisabled(t *testing.T) {
	old := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(old)

	release := Suspend()
	release()
	require.Equal(t, -1, gcPercent())
}

func TestConcurrent(t *testing.T) {
	old := debug.SetGCPercent(100)
	defer debug.SetGCPercent(old)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				release := Suspend()
				release()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 0, Active())
	require.Equal(t, 100, gcPercent())
}
