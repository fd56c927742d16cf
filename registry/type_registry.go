/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/model"
)

// ConstructFunc builds a model of a registered type for an identifier.
type ConstructFunc func(id any) (model.Model, error)

// Constructor holds the functions of one registered model type.
type Constructor struct {
	// New builds a fresh, unshared instance. Optional.
	New ConstructFunc
	// GetResourceByID returns the shared instance for an identifier. Required.
	GetResourceByID ConstructFunc
}

// Registry maps model type names to their constructors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Constructor
}

var defaultRegistry = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]Constructor)}
}

// Default returns the process wide registry used by the package level functions.
func Default() *Registry {
	return defaultRegistry
}

// RegisterModel registers the constructor for a type name. A name can be registered once.
func (r *Registry) RegisterModel(name string, c Constructor) error {
	if name == "" {
		return errors.New(errors.KindInvalidResource, "registry.RegisterModel", "empty type name")
	}
	if c.GetResourceByID == nil {
		return errors.New(errors.KindMissingFunction, "registry.RegisterModel", "type %q has no GetResourceByID", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return errors.NewAlreadyRegisteredError("model type", name)
	}
	r.types[name] = c
	return nil
}

// MustRegisterModel registers the constructor for a type name.
// It panics if the registration fails, typically when called twice for the same name.
func (r *Registry) MustRegisterModel(name string, c Constructor) {
	if err := r.RegisterModel(name, c); err != nil {
		panic(fmt.Sprintf("type registry: %v", err))
	}
}

// GetConstructorByID returns the constructor registered for the type name.
func (r *Registry) GetConstructorByID(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.types[name]
	if !ok {
		return Constructor{}, errors.NewNotFoundError("model type", name)
	}
	return c, nil
}

// GetResourceByID returns the shared instance of type name for id.
func (r *Registry) GetResourceByID(name string, id any) (model.Model, error) {
	c, err := r.GetConstructorByID(name)
	if err != nil {
		return nil, err
	}
	return c.GetResourceByID(id)
}

// Construct builds a fresh instance of type name for id.
func (r *Registry) Construct(name string, id any) (model.Model, error) {
	c, err := r.GetConstructorByID(name)
	if err != nil {
		return nil, err
	}
	if c.New == nil {
		return nil, errors.New(errors.KindMissingFunction, "registry.Construct", "type %q has no New", name)
	}
	return c.New(id)
}

// Names lists the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterModel registers a constructor with the default registry.
func RegisterModel(name string, c Constructor) error {
	return defaultRegistry.RegisterModel(name, c)
}

// MustRegisterModel registers a constructor with the default registry and panics on failure.
func MustRegisterModel(name string, c Constructor) {
	defaultRegistry.MustRegisterModel(name, c)
}

// GetConstructorByID looks a constructor up in the default registry.
func GetConstructorByID(name string) (Constructor, error) {
	return defaultRegistry.GetConstructorByID(name)
}

// GetResourceByID returns a shared instance through the default registry.
func GetResourceByID(name string, id any) (model.Model, error) {
	return defaultRegistry.GetResourceByID(name, id)
}
