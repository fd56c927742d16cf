/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collection

import (
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/events"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/model"
)

// Collection is a set of models keyed by identifier. It holds one reference to every
// member and gives it back when the member leaves.
type Collection struct {
	lock    sync.Mutex
	items   map[string]model.Model
	order   []string
	emitter events.Emitter
	log     *zap.Logger
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collection) {
		c.log = logging.OrNop(l)
	}
}

// New creates an empty Collection.
func New(opts ...Option) *Collection {
	c := &Collection{
		items: make(map[string]model.Model),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key validates item and returns its member key.
func key(op string, item any) (model.Model, string, error) {
	m, ok := item.(model.Model)
	if !ok || m == nil || isNilPointer(m) {
		return nil, "", errors.New(errors.KindWrongType, op, "%T is not a model", item)
	}
	id := m.ID()
	if model.EmptyID(id) {
		return nil, "", errors.New(errors.KindNoId, op, "%T has no id", item)
	}
	return m, datastore.FormatID(id), nil
}

func isNilPointer(m model.Model) bool {
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// AddItem adds a model and takes a reference to it. Adding a member again is a no-op.
// A different model with the identifier of a member replaces that member.
func (c *Collection) AddItem(item any) error {
	m, k, err := key("collection.AddItem", item)
	if err != nil {
		return err
	}

	c.lock.Lock()
	old, exists := c.items[k]
	if exists && old == m {
		c.lock.Unlock()
		return nil
	}
	if exists {
		c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == k })
	}
	m.IncreaseReferenceCounter()
	c.items[k] = m
	c.order = append(c.order, k)
	c.lock.Unlock()

	if exists {
		c.emitter.Emit(events.Event{Kind: events.Removed, Source: c, Item: old})
		old.Dispose()
	}
	c.log.Debug("item added", zap.String("id", k))
	c.emitter.Emit(events.Event{Kind: events.Added, Source: c, Item: m})
	return nil
}

// RemoveItem removes the member with the identifier of item, emits events.Removed and
// gives back the collection's reference.
func (c *Collection) RemoveItem(item any) error {
	_, k, err := key("collection.RemoveItem", item)
	if err != nil {
		return err
	}
	if !c.remove(k) {
		return errors.NewNotFoundError("collection item", k)
	}
	return nil
}

func (c *Collection) remove(k string) bool {
	c.lock.Lock()
	m, exists := c.items[k]
	if !exists {
		c.lock.Unlock()
		return false
	}
	delete(c.items, k)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == k })
	c.lock.Unlock()

	c.log.Debug("item removed", zap.String("id", k))
	c.emitter.Emit(events.Event{Kind: events.Removed, Source: c, Item: m})
	m.Dispose()
	return true
}

// RemoveAll removes every member as RemoveItem does.
func (c *Collection) RemoveAll() {
	c.lock.Lock()
	keys := slices.Clone(c.order)
	c.lock.Unlock()

	for _, k := range keys {
		c.remove(k)
	}
}

// Contains reports whether a member has the identifier of item.
func (c *Collection) Contains(item any) bool {
	_, k, err := key("collection.Contains", item)
	if err != nil {
		return false
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	_, exists := c.items[k]
	return exists
}

// Get returns the member with identifier id without taking a reference.
func (c *Collection) Get(id any) (model.Model, bool) {
	if model.EmptyID(id) {
		return nil, false
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	m, ok := c.items[datastore.FormatID(id)]
	return m, ok
}

func (c *Collection) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.items)
}

// Items returns the members in insertion order.
func (c *Collection) Items() []model.Model {
	c.lock.Lock()
	defer c.lock.Unlock()
	items := make([]model.Model, 0, len(c.order))
	for _, k := range c.order {
		items = append(items, c.items[k])
	}
	return items
}

// On registers a handler for events.Added and events.Removed.
func (c *Collection) On(kind events.Kind, h events.EventHandler) *events.Subscription {
	return c.emitter.On(kind, h)
}

// Dispose gives back the reference to every member and empties the collection.
// No events are emitted.
func (c *Collection) Dispose() {
	c.lock.Lock()
	items := make([]model.Model, 0, len(c.order))
	for _, k := range c.order {
		items = append(items, c.items[k])
	}
	c.items = make(map[string]model.Model)
	c.order = nil
	c.lock.Unlock()

	for _, m := range items {
		m.Dispose()
	}
	c.emitter.Clear()
}
