/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resourcekit

import (
	"sort"
	"sync"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
)

// Engines manages a collection of named storage engines (for example "local", "mysql" or "rest").
type Engines interface {
	// RegisterEngine registers an engine under the given name.
	RegisterEngine(name string, e datastore.Engine) error
	// GetEngine retrieves the engine registered under the given name.
	GetEngine(name string) (datastore.Engine, error)
	// Names lists the registered engine names in sorted order.
	Names() []string
}

// engineManager is a thread-safe implementation of the Engines interface.
type engineManager struct {
	mu      sync.RWMutex
	engines map[string]datastore.Engine
}

var (
	defaultEngines     Engines
	defaultEnginesOnce sync.Once
)

// NewEngines creates and returns a new Engines implementation.
func NewEngines() Engines {
	return &engineManager{
		engines: make(map[string]datastore.Engine),
	}
}

// DefaultEngines returns the process wide engine manager.
func DefaultEngines() Engines {
	defaultEnginesOnce.Do(func() {
		defaultEngines = NewEngines()
	})
	return defaultEngines
}

// RegisterEngine stores the provided engine under the given name.
func (em *engineManager) RegisterEngine(name string, e datastore.Engine) error {
	if name == "" {
		return errors.New(errors.KindInvalidResource, "RegisterEngine", "empty engine name")
	}
	if e == nil {
		return errors.New(errors.KindInvalidData, "RegisterEngine", "engine %q is nil", name)
	}

	em.mu.Lock()
	defer em.mu.Unlock()

	if _, exists := em.engines[name]; exists {
		return errors.NewAlreadyRegisteredError("engine", name)
	}
	em.engines[name] = e
	return nil
}

// GetEngine retrieves the engine associated with the given name.
func (em *engineManager) GetEngine(name string) (datastore.Engine, error) {
	em.mu.RLock()
	defer em.mu.RUnlock()

	e, exists := em.engines[name]
	if !exists {
		return nil, errors.NewNotFoundError("engine", name)
	}
	return e, nil
}

func (em *engineManager) Names() []string {
	em.mu.RLock()
	defer em.mu.RUnlock()

	names := make([]string, 0, len(em.engines))
	for k := range em.engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MustRegisterEngine is like RegisterEngine but panics on failure.
func MustRegisterEngine(em Engines, name string, e datastore.Engine) {
	if err := em.RegisterEngine(name, e); err != nil {
		panic(err)
	}
}
