/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/storagemodels"
)

// DefaultPrefix is the namespace prefix of all keys.
const DefaultPrefix = "resourcekit"

const (
	typeSuffix = ":t"
	probeKey   = "__resourcekit_probe__"
)

// Storage is a datastore.Engine over a string key/value Backend. Values are stored
// together with a one-character type tag so that loads return typed values.
//
// Storing storagemodels.NewEntry stores under a fresh UUID which is passed to the
// callback. A list of ids with a list of data of the same length stores the values
// pairwise; any other data, lists included, is stored whole under every id.
//
// Storage never returns an error from its operations other than for a missing callback;
// all failures are passed to the callback. Callbacks are invoked synchronously.
type Storage struct {
	backend    Backend
	prefix     string
	version    string
	resourceID string
	keys       datastore.KeyValidator
	newID      func() string
	log        *zap.Logger
}

var _ datastore.Engine = (*Storage)(nil)

// Option configures a Storage.
type Option func(*Storage)

// WithPrefix sets the key namespace prefix.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		s.log = logging.OrNop(l)
	}
}

// WithKeyValidator replaces datastore.DefaultKeys.
func WithKeyValidator(v datastore.KeyValidator) Option {
	return func(s *Storage) {
		s.keys = v
	}
}

// WithIDGenerator replaces the random UUID ids assigned to new entries.
func WithIDGenerator(fn func() string) Option {
	return func(s *Storage) {
		s.newID = fn
	}
}

// New creates a Storage for a resource of a given version.
func New(backend Backend, version, resourceID string, opts ...Option) *Storage {
	s := &Storage{
		backend:    backend,
		prefix:     DefaultPrefix,
		version:    version,
		resourceID: resourceID,
		keys:       datastore.DefaultKeys,
		newID:      uuid.NewString,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the backend key of the value stored for a scalar id.
func (s *Storage) Key(id any) string {
	return fmt.Sprintf("%s-%s-%s-%s", s.prefix, s.version, s.resourceID, datastore.FormatID(id))
}

// IsAvailable probes the backend with a write and a removal.
func (s *Storage) IsAvailable() bool {
	if s.backend == nil {
		return false
	}
	if err := s.backend.SetItem(probeKey, probeKey); err != nil {
		return false
	}
	return s.backend.RemoveItem(probeKey) == nil
}

// Load reads the values of one or more ids. Absent values load as nil.
func (s *Storage) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Load", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "localcache.Load", "id %v", id))
		return nil
	}
	ids, multi := datastore.IDs(id)
	results := make([]any, len(ids))
	for i, one := range ids {
		v, err := s.loadOne(one, opts)
		if err != nil {
			cb(nil, err)
			return nil
		}
		results[i] = v
	}
	if multi {
		cb(results, nil)
	} else {
		cb(results[0], nil)
	}
	return nil
}

func (s *Storage) loadOne(id any, opts *storagemodels.LoadOptions) (any, error) {
	key := s.Key(id)
	raw, ok := s.backend.GetItem(key)
	if !ok {
		return nil, nil
	}
	tag, _ := s.backend.GetItem(key + typeSuffix)
	v, err := decode(raw, tag)
	if err != nil {
		return nil, errors.Wrap(errors.KindInvalidData, "localcache.Load", fmt.Errorf("key %s: %w", key, err))
	}
	if opts.HasFields() {
		return selectFields(v, opts.Fields)
	}
	return v, nil
}

// Store writes data under one or more ids. If id is a list and data a list of the
// same length, the values are stored pairwise, otherwise data is stored under every id.
// storagemodels.NewEntry is replaced by a new id.
func (s *Storage) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Store", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "localcache.Store", "id %v", id))
		return nil
	}
	if datastore.IsMissingData(data) {
		cb(nil, errors.New(errors.KindMissingData, "localcache.Store", "no data for id %v", id))
		return nil
	}
	stored := id
	if datastore.IsNewEntry(id) {
		stored = s.newID()
	}
	ids, _ := datastore.IDs(stored)
	values, pairwise := datastore.IDs(data)
	pairwise = pairwise && len(values) == len(ids)
	for i, one := range ids {
		value := data
		if pairwise {
			value = values[i]
		}
		if err := s.storeOne(one, value); err != nil {
			cb(nil, err)
			return nil
		}
	}
	cb(stored, nil)
	return nil
}

func (s *Storage) storeOne(id any, value any) error {
	raw, tag, err := encode(value)
	if err != nil {
		return errors.Wrap(errors.KindInvalidData, "localcache.Store", err)
	}
	key := s.Key(id)
	if err := s.backend.SetItem(key, raw); err != nil {
		return fmt.Errorf("localcache.Store: %s: %w", key, err)
	}
	if err := s.backend.SetItem(key+typeSuffix, string(tag)); err != nil {
		return fmt.Errorf("localcache.Store: %s: %w", key+typeSuffix, err)
	}
	s.log.Debug("stored", zap.String("key", key), zap.String("type", string(tag)))
	return nil
}

// Remove deletes the values of one or more ids.
func (s *Storage) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Remove", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(errors.New(errors.KindInvalidKey, "localcache.Remove", "id %v", id))
		return nil
	}
	ids, _ := datastore.IDs(id)
	for _, one := range ids {
		key := s.Key(one)
		for _, k := range []string{key, key + typeSuffix} {
			if err := s.backend.RemoveItem(k); err != nil {
				cb(fmt.Errorf("localcache.Remove: %s: %w", k, err))
				return nil
			}
		}
		s.log.Debug("removed", zap.String("key", key))
	}
	cb(nil)
	return nil
}

func selectFields(v any, fields []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.KindLoadOptionsFields, "localcache.Load", "value of type %T has no fields", v)
	}
	selected := make(map[string]any, len(fields))
	for _, f := range fields {
		if fv, ok := obj[f]; ok {
			selected[f] = fv
		}
	}
	return selected, nil
}
