// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

// Package seqobsv is a counter that can be waited on.
package seqobsv

import "sync"

// Observable holds a monotonically increasing value.
type Observable struct {
	mu  sync.Mutex
	val uint64

	waiters map[uint64][]chan struct{}
}

// New returns an observable starting at start.
func New(start uint64) *Observable {
	return &Observable{
		val:     start,
		waiters: make(map[uint64][]chan struct{}),
	}
}

// Value returns the current value.
func (o *Observable) Value() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.val
}

// Inc increments the value by one and returns the new value.
func (o *Observable) Inc() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.val++
	o.wake()
	return o.val
}

// Set raises the value to v. Lower values are ignored.
func (o *Observable) Set(v uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v <= o.val {
		return
	}
	o.val = v
	o.wake()
}

// WaitFor returns a channel that is closed once the value is at least n.
func (o *Observable) WaitFor(n uint64) <-chan struct{} {
	ch := make(chan struct{})

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.val >= n {
		close(ch)
		return ch
	}
	o.waiters[n] = append(o.waiters[n], ch)
	return ch
}

// Release drops a channel returned by WaitFor that is no longer waited on.
func (o *Observable) Release(ch <-chan struct{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for n, chans := range o.waiters {
		for i, c := range chans {
			if c != ch {
				continue
			}
			chans = append(chans[:i], chans[i+1:]...)
			if len(chans) == 0 {
				delete(o.waiters, n)
			} else {
				o.waiters[n] = chans
			}
			return
		}
	}
}

// Waiting returns the number of pending WaitFor channels.
func (o *Observable) Waiting() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, chans := range o.waiters {
		n += len(chans)
	}
	return n
}

func (o *Observable) wake() {
	for n, chans := range o.waiters {
		if n > o.val {
			continue
		}
		for _, ch := range chans {
			close(ch)
		}
		delete(o.waiters, n)
	}
}
