/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// NewEntry is the sentinel identifier asking an engine to assign a new identifier on store.
const NewEntry = -1

// LoadCallback receives the outcome of a load. For a list of identifiers data is a []any
// in the order of the requested identifiers.
type LoadCallback func(data any, err error)

// StoreCallback receives the outcome of a store. id is the persisted identifier, which is
// the engine-assigned one when NewEntry was stored.
type StoreCallback func(id any, err error)

// Callback receives the outcome of an operation without result.
type Callback func(err error)

// LoadOptions narrows a load.
type LoadOptions struct {
	// Offset skips the first entries of a listing.
	Offset *int
	// Limit caps the number of entries of a listing.
	Limit *int
	// Fields restricts object values to the named fields.
	Fields []string
}

// HasFields reports whether a field restriction is requested.
func (o *LoadOptions) HasFields() bool {
	return o != nil && o.Fields != nil
}

// LoadOption is a functional option for configuring a load
type LoadOption func(*LoadOptions)

// NewLoadOptions builds load options from functional options.
// It returns nil if no option is given.
func NewLoadOptions(opts ...LoadOption) *LoadOptions {
	if len(opts) == 0 {
		return nil
	}
	o := &LoadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithOffset sets the listing offset
func WithOffset(offset int) LoadOption {
	return func(opts *LoadOptions) {
		opts.Offset = &offset
	}
}

// WithLimit sets the listing limit
func WithLimit(limit int) LoadOption {
	return func(opts *LoadOptions) {
		opts.Limit = &limit
	}
}

// WithFields restricts the loaded fields
func WithFields(fields ...string) LoadOption {
	return func(opts *LoadOptions) {
		opts.Fields = append([]string{}, fields...)
	}
}
