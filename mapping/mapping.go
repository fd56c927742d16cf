/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Attribute describes how one field of a model is exchanged with storage.
type Attribute struct {
	// Name is the external key of the field. Unique within a Set.
	Name string
	// Get reads the internal value from a model.
	Get func(m any) any
	// Set writes a value into a model.
	Set func(m any, v any) error
	// GetHelper converts the internal value to its external form.
	GetHelper func(v any) any
	// SetHelper converts an external value to its internal form.
	SetHelper func(v any) any
	// AutoStore marks attributes whose change triggers a store when auto-store is on.
	AutoStore bool
}

// Set is the ordered attribute list of a model type: the parent's attributes followed
// by the type's own. A Set is merged when created and never changes afterwards.
type Set struct {
	parent *Set
	attrs  []Attribute
	index  map[string]int
}

// NewSet merges parent (may be nil) with attrs. It panics on a duplicate name or an
// attribute without getter or setter.
func NewSet(parent *Set, attrs ...Attribute) *Set {
	s := &Set{parent: parent, index: map[string]int{}}
	if parent != nil {
		s.attrs = slices.Clone(parent.attrs)
		for name, i := range parent.index {
			s.index[name] = i
		}
	}
	for _, a := range attrs {
		if a.Name == "" || a.Get == nil || a.Set == nil {
			panic(fmt.Sprintf("mapping: attribute %q needs a name, getter and setter", a.Name))
		}
		if _, exists := s.index[a.Name]; exists {
			panic(fmt.Sprintf("mapping: attribute %q already defined", a.Name))
		}
		s.index[a.Name] = len(s.attrs)
		s.attrs = append(s.attrs, a)
	}
	return s
}

// Parent returns the set this one extends.
func (s *Set) Parent() *Set {
	return s.parent
}

// Attributes returns the merged attributes in definition order.
func (s *Set) Attributes() []Attribute {
	return slices.Clone(s.attrs)
}

// Names returns the attribute names in definition order.
func (s *Set) Names() []string {
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.Name
	}
	return names
}

// Lookup finds an attribute by name.
func (s *Set) Lookup(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

func (s *Set) Len() int {
	return len(s.attrs)
}

// Apply writes the entries of data that have an attribute into m, passing each value
// through the attribute's SetHelper first. Attributes missing from data are left alone.
// It returns the names written.
func Apply(s *Set, m any, data map[string]any) ([]string, error) {
	var applied []string
	for _, a := range s.attrs {
		v, ok := data[a.Name]
		if !ok {
			continue
		}
		if a.SetHelper != nil {
			v = a.SetHelper(v)
		}
		if err := a.Set(m, v); err != nil {
			return applied, fmt.Errorf("setting %s: %w", a.Name, err)
		}
		applied = append(applied, a.Name)
	}
	return applied, nil
}

// Extract reads every attribute of m, passing each value through its GetHelper.
func Extract(s *Set, m any) map[string]any {
	data := make(map[string]any, len(s.attrs))
	for _, a := range s.attrs {
		v := a.Get(m)
		if a.GetHelper != nil {
			v = a.GetHelper(v)
		}
		data[a.Name] = v
	}
	return data
}

var (
	definitions = make(map[reflect.Type]*Set)
	mu          sync.RWMutex
)

// Define creates the attribute set of type T from its parent's set and registers it.
// A type can be defined once; a second definition panics.
func Define[T any](parent *Set, attrs ...Attribute) *Set {
	t := reflect.TypeOf((*T)(nil)).Elem()
	s := NewSet(parent, attrs...)

	mu.Lock()
	defer mu.Unlock()
	if _, exists := definitions[t]; exists {
		panic(fmt.Sprintf("mapping: attributes of %s already defined", t))
	}
	definitions[t] = s
	return s
}

// For returns the attribute set registered for T, if any.
func For[T any]() (*Set, bool) {
	return ForType(reflect.TypeOf((*T)(nil)).Elem())
}

// ForType returns the attribute set registered for t, if any.
func ForType(t reflect.Type) (*Set, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := definitions[t]
	return s, ok
}
