/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory datastore.Engine for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/storagemodels"
)

// Engine is a mock implementation of datastore.Engine. It calls back synchronously
// unless made asynchronous with WithAsync.
type Engine struct {
	mu          sync.RWMutex
	data        map[string]any
	nextID      int64
	async       bool
	unavailable bool
	loadFunc    func(id any) (any, error)
	loadError   error
	storeError  error
	removeError error
	calls       map[string]int
}

var _ datastore.Engine = (*Engine)(nil)

// New creates a new mock Engine
func New() *Engine {
	return &Engine{
		data:  make(map[string]any),
		calls: make(map[string]int),
	}
}

// WithAsync makes callbacks run on their own goroutine
func (m *Engine) WithAsync() *Engine {
	m.async = true
	return m
}

// WithLoadFunc sets a custom load function for testing
func (m *Engine) WithLoadFunc(f func(id any) (any, error)) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadFunc = f
	return m
}

// WithLoadError makes Load operations fail
func (m *Engine) WithLoadError(err error) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
	return m
}

// WithStoreError makes Store operations fail
func (m *Engine) WithStoreError(err error) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeError = err
	return m
}

// WithRemoveError makes Remove operations fail
func (m *Engine) WithRemoveError(err error) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeError = err
	return m
}

// SetAvailable controls IsAvailable
func (m *Engine) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = !available
}

func (m *Engine) IsAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.unavailable
}

// Load retrieves the values of one or more ids; absent values load as nil
func (m *Engine) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "mock.Load", "callback required")
	}
	m.mu.Lock()
	m.calls["load"]++
	loadFunc, loadErr := m.loadFunc, m.loadError
	m.mu.Unlock()

	m.run(func() {
		if loadErr != nil {
			cb(nil, loadErr)
			return
		}
		if loadFunc != nil {
			cb(loadFunc(id))
			return
		}
		if !datastore.IsValidID(id) {
			cb(nil, errors.New(errors.KindInvalidKey, "mock.Load", "id %v", id))
			return
		}
		ids, multi := datastore.IDs(id)
		m.mu.RLock()
		results := make([]any, len(ids))
		for i, one := range ids {
			results[i] = m.data[datastore.FormatID(one)]
		}
		m.mu.RUnlock()
		if multi {
			cb(results, nil)
		} else {
			cb(results[0], nil)
		}
	})
	return nil
}

// Store saves data under every id. storagemodels.NewEntry is assigned the next
// sequence number, starting at 1.
func (m *Engine) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "mock.Store", "callback required")
	}
	m.mu.Lock()
	m.calls["store"]++
	storeErr := m.storeError
	m.mu.Unlock()

	m.run(func() {
		if storeErr != nil {
			cb(nil, storeErr)
			return
		}
		if !datastore.EntryKeys.IsValidID(id) {
			cb(nil, errors.New(errors.KindInvalidKey, "mock.Store", "id %v", id))
			return
		}
		if datastore.IsMissingData(data) {
			cb(nil, errors.New(errors.KindMissingData, "mock.Store", "no data for id %v", id))
			return
		}
		m.mu.Lock()
		stored := id
		if datastore.IsNewEntry(id) {
			m.nextID++
			stored = m.nextID
		}
		ids, _ := datastore.IDs(stored)
		for _, one := range ids {
			m.data[datastore.FormatID(one)] = data
		}
		m.mu.Unlock()
		cb(stored, nil)
	})
	return nil
}

// Remove deletes the values of one or more ids
func (m *Engine) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "mock.Remove", "callback required")
	}
	m.mu.Lock()
	m.calls["remove"]++
	removeErr := m.removeError
	m.mu.Unlock()

	m.run(func() {
		if removeErr != nil {
			cb(removeErr)
			return
		}
		if !datastore.IsValidID(id) {
			cb(errors.New(errors.KindInvalidKey, "mock.Remove", "id %v", id))
			return
		}
		ids, _ := datastore.IDs(id)
		m.mu.Lock()
		for _, one := range ids {
			delete(m.data, datastore.FormatID(one))
		}
		m.mu.Unlock()
		cb(nil)
	})
	return nil
}

func (m *Engine) run(f func()) {
	if m.async {
		go f()
		return
	}
	f()
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing)
func (m *Engine) SetData(data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the internal data map (for testing)
func (m *Engine) GetData() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]any, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Count returns the number of stored values
func (m *Engine) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Calls returns how often an operation ("load", "store", "remove") was called
func (m *Engine) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// Clear removes all data
func (m *Engine) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]any)
}
