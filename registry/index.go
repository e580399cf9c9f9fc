/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Index is a thread-safe name → value registry for a specific type T
type Index[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewIndex creates a new empty Index for type T
func NewIndex[T any]() *Index[T] {
	return &Index[T]{
		items: make(map[string]T),
	}
}

// Register adds a value under key. It fails if the key is taken.
func (ix *Index[T]) Register(key string, v T) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.items[key]; exists {
		return fmt.Errorf("registry entry with key %q already registered", key)
	}

	ix.items[key] = v
	return nil
}

// GetOrCreate returns the value under key, calling create and storing its
// result when the key is absent. The check and the insert happen under one
// lock, so concurrent callers for the same key all observe a single value.
// The boolean reports whether create ran.
func (ix *Index[T]) GetOrCreate(key string, create func() (T, error)) (T, bool, error) {
	ix.mu.RLock()
	v, exists := ix.items[key]
	ix.mu.RUnlock()
	if exists {
		return v, false, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if v, exists := ix.items[key]; exists {
		return v, false, nil
	}

	v, err := create()
	if err != nil {
		var zero T
		return zero, false, err
	}
	ix.items[key] = v
	return v, true, nil
}

// Get retrieves a value by key
func (ix *Index[T]) Get(key string) (T, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	v, exists := ix.items[key]
	return v, exists
}

// Remove deletes a value by key and returns it. Removing an absent key is a no-op.
func (ix *Index[T]) Remove(key string) (T, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	v, exists := ix.items[key]
	if exists {
		delete(ix.items, key)
	}
	return v, exists
}

// List returns all registered keys in lexical order
func (ix *Index[T]) List() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]string, 0, len(ix.items))
	for k := range ix.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (ix *Index[T]) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}
