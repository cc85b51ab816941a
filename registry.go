// SPDX-FileCopyrightText: 2021 The margaret Authors
//
// SPDX-License-Identifier: MIT

package extpack

import "sync"

// EncodeFunc is an encode hook. It returns ok=false if v is not a value it handles.
// Otherwise out must be something the encoder can represent, typically a
// map[string]any carrying a marker key.
type EncodeFunc func(v interface{}) (out interface{}, ok bool, err error)

// DecodeFunc is a decode hook. It is offered every decoded string-keyed mapping,
// innermost first, and returns ok=false if m is not one of its records.
type DecodeFunc func(m map[string]interface{}) (out interface{}, ok bool, err error)

// Registry is an ordered set of named handlers.
type Registry[H any] struct {
	mu      sync.RWMutex
	entries map[string]H
	order   []string
}

type (
	EncodeRegistry = Registry[EncodeFunc]
	DecodeRegistry = Registry[DecodeFunc]
)

// NewRegistry returns an empty registry.
func NewRegistry[H any]() *Registry[H] {
	return &Registry[H]{entries: make(map[string]H)}
}

// NewEncodeRegistry returns an empty registry of encode hooks.
func NewEncodeRegistry() *EncodeRegistry { return NewRegistry[EncodeFunc]() }

// NewDecodeRegistry returns an empty registry of decode hooks.
func NewDecodeRegistry() *DecodeRegistry { return NewRegistry[DecodeFunc]() }

// Register adds h under name at the end of the order.
// If name is already taken its handler is replaced and keeps its position.
func (r *Registry[H]) Register(name string, h H) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]H)
	}
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = h
}

// Deregister removes the handler registered under name.
func (r *Registry[H]) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return &NotFoundError{Name: name}
	}
	delete(r.entries, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns the handlers in registration order.
// The returned slice is a copy and does not change when the registry does.
func (r *Registry[H]) All() []H {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hs := make([]H, 0, len(r.order))
	for _, name := range r.order {
		hs = append(hs, r.entries[name])
	}
	return hs
}

// Names returns the registered names in registration order.
func (r *Registry[H]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered handlers.
func (r *Registry[H]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
