/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"sync"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
)

// Table shares one instance per id of a model type. The table holds one reference
// to every instance it returns.
type Table[M Model] struct {
	lock  sync.Mutex
	items map[string]M
}

// NewTable creates an empty Table.
func NewTable[M Model]() *Table[M] {
	return &Table[M]{items: map[string]M{}}
}

// Get returns the instance for id, constructing it on first use. The caller owns one
// reference of the result and gives it back with Dispose.
func (t *Table[M]) Get(id any, construct func(id any) (M, error)) (M, error) {
	var zero M
	if EmptyID(id) {
		return zero, errors.New(errors.KindNoId, "model.Table.Get", "id required")
	}
	key := datastore.FormatID(id)

	t.lock.Lock()
	defer t.lock.Unlock()
	if m, ok := t.items[key]; ok && !m.IsDisposed() {
		m.IncreaseReferenceCounter()
		return m, nil
	}
	m, err := construct(id)
	if err != nil {
		return zero, err
	}
	m.IncreaseReferenceCounter()
	t.items[key] = m
	return m, nil
}

// Lookup returns the instance for id without taking a reference.
func (t *Table[M]) Lookup(id any) (M, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	m, ok := t.items[datastore.FormatID(id)]
	return m, ok
}

// Release drops the table's reference to the instance for id.
func (t *Table[M]) Release(id any) {
	key := datastore.FormatID(id)
	t.lock.Lock()
	m, ok := t.items[key]
	delete(t.items, key)
	t.lock.Unlock()
	if ok {
		m.Dispose()
	}
}

// Clear drops the table's reference to every instance.
func (t *Table[M]) Clear() {
	t.lock.Lock()
	items := t.items
	t.items = map[string]M{}
	t.lock.Unlock()
	for _, m := range items {
		m.Dispose()
	}
}

func (t *Table[M]) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.items)
}
