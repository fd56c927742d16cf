/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resourcekit

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/model"
)

// Binding is the storage configuration shared by every instance of one model type.
type Binding struct {
	// Storage is the primary engine. Required.
	Storage datastore.Engine
	// Cache is an optional engine consulted before Storage.
	Cache     datastore.Engine
	RestURL   string
	AutoStore bool
	// Delay is the change notification delay of the instances.
	Delay  time.Duration
	Logger *zap.Logger
}

// Options turns the binding into model options for a new instance.
func (b Binding) Options() model.Options {
	return model.Options{
		Storage:   b.Storage,
		Cache:     b.Cache,
		RestURL:   b.RestURL,
		AutoStore: b.AutoStore,
		Delay:     b.Delay,
		Logger:    b.Logger,
	}
}

// Bindings holds one Binding per model type.
type Bindings struct {
	mu       sync.RWMutex
	bindings map[reflect.Type]Binding
}

var defaultBindings = NewBindings()

// NewBindings creates a new, empty Bindings table
func NewBindings() *Bindings {
	return &Bindings{
		bindings: make(map[reflect.Type]Binding),
	}
}

// DefaultBindings returns the process wide bindings table used by the model constructors.
func DefaultBindings() *Bindings {
	return defaultBindings
}

// Types returns the names of all bound types
func (bs *Bindings) Types() []string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	names := make([]string, 0, len(bs.bindings))
	for t := range bs.bindings {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

// Bind attaches a binding to type T. A type can be bound once until it is unbound.
func Bind[T any](bs *Bindings, b Binding) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if b.Storage == nil {
		return errors.New(errors.KindInvalidData, "Bind", "binding for %s has no storage", typ)
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if _, exists := bs.bindings[typ]; exists {
		return errors.NewAlreadyRegisteredError("binding", typ.String())
	}
	bs.bindings[typ] = b
	return nil
}

// BindingFor returns the binding of type T
func BindingFor[T any](bs *Bindings) (Binding, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	bs.mu.RLock()
	defer bs.mu.RUnlock()

	b, exists := bs.bindings[typ]
	if !exists {
		return Binding{}, errors.NewNotFoundError("binding", typ.String())
	}
	return b, nil
}

// Unbind removes the binding of type T
func Unbind[T any](bs *Bindings) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if _, exists := bs.bindings[typ]; !exists {
		return errors.NewNotFoundError("binding", typ.String())
	}
	delete(bs.bindings, typ)
	return nil
}
