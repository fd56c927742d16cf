/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/events"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/storagemodels"
)

// Model is the capability set shared by all models. Embedding Base provides it.
type Model interface {
	ID() any
	SetID(id any)
	IncreaseReferenceCounter()
	ReferenceCount() int
	Dispose()
	IsDisposed() bool
	On(kind events.Kind, h events.EventHandler) *events.Subscription
}

// EmptyID reports identifiers meaning "new, not yet stored".
func EmptyID(id any) bool {
	return id == nil || id == ""
}

// Options attaches a model to its engines.
type Options struct {
	// Storage is the primary engine. It is shared and not owned by the model.
	Storage datastore.Engine
	// Cache is consulted before Storage on Load and updated after Load and Store.
	Cache datastore.Engine
	// RestURL is the base URL of the model's REST resource, if any.
	RestURL   string
	AutoStore bool
	// Delay is the change notification delay, DefaultDelay if zero.
	Delay  time.Duration
	Clock  clock.WithDelayedExecution
	Logger *zap.Logger
}

// Base implements Model for an embedding struct. It must be initialized with Init.
//
// A model is reference counted: it starts with one reference, every holder adds one
// with IncreaseReferenceCounter and gives it back with Dispose. The last Dispose emits
// events.Deleted and releases the engines.
type Base struct {
	lock       sync.Mutex
	fields     sync.RWMutex
	self       any
	attrs      *mapping.Set
	id         any
	restURL    string
	storage    datastore.Engine
	cache      datastore.Engine
	dataLoaded bool
	loading    bool
	autoStore  bool
	storeDue   bool
	refs       int
	disposed   bool
	emitter    events.Emitter
	notifier   *Notifier
	log        *zap.Logger
}

// Init prepares the Base of self, the model embedding it, with one reference.
func (b *Base) Init(self any, attrs *mapping.Set, id any, opts Options) {
	b.self = self
	b.attrs = attrs
	b.id = id
	b.restURL = opts.RestURL
	b.storage = opts.Storage
	b.cache = opts.Cache
	b.autoStore = opts.AutoStore
	b.refs = 1
	b.log = logging.OrNop(opts.Logger)
	b.notifier = NewNotifier(opts.Clock, opts.Delay, b.changed)
}

func (b *Base) ID() any {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.id
}

func (b *Base) SetID(id any) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.id = id
}

func (b *Base) RestURL() string {
	return b.restURL
}

// Attributes returns the attribute set of the model type.
func (b *Base) Attributes() *mapping.Set {
	return b.attrs
}

func (b *Base) Storage() datastore.Engine {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.storage
}

func (b *Base) Cache() datastore.Engine {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.cache
}

// DataLoaded reports whether a Load completed successfully.
func (b *Base) DataLoaded() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.dataLoaded
}

// Loading reports whether a Load is in flight.
func (b *Base) Loading() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.loading
}

func (b *Base) AutoStore() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.autoStore
}

// SetAutoStore enables storing after changes of AutoStore attributes.
func (b *Base) SetAutoStore(enabled bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.autoStore = enabled
}

func (b *Base) IncreaseReferenceCounter() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.disposed {
		b.log.Warn("reference to disposed model", zap.String("model", b.name()))
		return
	}
	b.refs++
}

func (b *Base) ReferenceCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.refs
}

func (b *Base) IsDisposed() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.disposed
}

// Dispose gives back one reference. Releasing the last one cancels pending change
// notifications, emits events.Deleted and detaches the engines and handlers.
func (b *Base) Dispose() {
	b.lock.Lock()
	if b.disposed {
		b.lock.Unlock()
		return
	}
	b.refs--
	if b.refs > 0 {
		b.lock.Unlock()
		return
	}
	b.disposed = true
	b.lock.Unlock()

	b.notifier.Cancel()
	b.emitter.Emit(events.Event{Kind: events.Deleted, Source: b.self})
	b.emitter.Clear()

	b.lock.Lock()
	b.storage = nil
	b.cache = nil
	b.lock.Unlock()
	b.log.Debug("model disposed", zap.String("model", b.name()))
}

// On registers a handler for the model's events.
func (b *Base) On(kind events.Kind, h events.EventHandler) *events.Subscription {
	return b.emitter.On(kind, h)
}

// Changed records changed attributes for the next change notification.
func (b *Base) Changed(attrs ...string) {
	b.lock.Lock()
	if b.disposed {
		b.lock.Unlock()
		return
	}
	if !b.loading && b.autoStore {
		for _, a := range attrs {
			if attr, ok := b.attrs.Lookup(a); ok && attr.AutoStore {
				b.storeDue = true
			}
		}
	}
	b.lock.Unlock()
	b.notifier.Touch(attrs...)
}

// FlushChanges delivers pending change notifications immediately.
func (b *Base) FlushChanges() {
	b.notifier.Flush()
}

func (b *Base) changed(attrs []string) {
	b.lock.Lock()
	if b.disposed {
		b.lock.Unlock()
		return
	}
	store := b.storeDue && b.autoStore
	b.storeDue = false
	b.lock.Unlock()

	b.emitter.Emit(events.Event{Kind: events.Changed, Source: b.self, Attributes: attrs})
	if store {
		if err := b.Store(context.Background(), func(err error) {
			if err != nil {
				b.log.Warn("auto store failed", zap.String("model", b.name()), zap.Error(err))
			}
		}); err != nil {
			b.log.Warn("auto store failed", zap.String("model", b.name()), zap.Error(err))
		}
	}
}

// Assign sets *field to value if it differs and records attr as changed.
func Assign[T comparable](b *Base, field *T, value T, attr string) bool {
	b.fields.Lock()
	if *field == value {
		b.fields.Unlock()
		return false
	}
	*field = value
	b.fields.Unlock()
	b.Changed(attr)
	return true
}

// Read returns *field, synchronized with Assign.
func Read[T any](b *Base, field *T) T {
	b.fields.RLock()
	defer b.fields.RUnlock()
	return *field
}

// UpdateDataViaMappings applies the entries of data that have an attribute. Attributes
// missing from data keep their values.
func (b *Base) UpdateDataViaMappings(data map[string]any) error {
	_, err := mapping.Apply(b.attrs, b.self, data)
	return err
}

// ModelData exports all attributes.
func (b *Base) ModelData() map[string]any {
	return mapping.Extract(b.attrs, b.self)
}

// Load reads the model data, from the cache if it holds it and from storage otherwise,
// and applies it. Data read from storage is written to the cache. The model holds a
// reference until cb has been called.
func (b *Base) Load(ctx context.Context, cb func(error)) error {
	const op = "model.Load"
	b.lock.Lock()
	id, storage, cache := b.id, b.storage, b.cache
	if err := b.ready(op, id, storage); err != nil {
		b.lock.Unlock()
		return err
	}
	b.refs++
	b.loading = true
	b.lock.Unlock()

	finish := func(err error) {
		b.lock.Lock()
		b.loading = false
		if err == nil {
			b.dataLoaded = true
		}
		b.lock.Unlock()
		if cb != nil {
			cb(err)
		}
		b.Dispose()
	}

	fromStorage := func() {
		err := storage.Load(ctx, func(data any, err error) {
			if err == nil {
				err = b.apply(op, id, data)
			}
			if err == nil && cache != nil {
				if cerr := cache.Store(ctx, func(_ any, err error) {
					if err != nil {
						b.log.Warn("cache update failed", zap.String("model", b.name()), zap.Error(err))
					}
				}, id, data); cerr != nil {
					b.log.Warn("cache update failed", zap.String("model", b.name()), zap.Error(cerr))
				}
			}
			finish(err)
		}, id, nil)
		if err != nil {
			finish(err)
		}
	}

	if cache == nil {
		fromStorage()
		return nil
	}
	err := cache.Load(ctx, func(data any, err error) {
		if err == nil && data != nil {
			if err = b.apply(op, id, data); err == nil {
				b.log.Debug("loaded from cache", zap.String("model", b.name()), zap.Any("id", id))
				finish(nil)
				return
			}
		}
		if err != nil {
			b.log.Debug("cache load failed", zap.String("model", b.name()), zap.Error(err))
		}
		fromStorage()
	}, id, nil)
	if err != nil {
		fromStorage()
	}
	return nil
}

// Store writes the model data to storage and then to the cache. A model without id is
// stored as storagemodels.NewEntry and takes the assigned id.
func (b *Base) Store(ctx context.Context, cb func(error)) error {
	const op = "model.Store"
	b.lock.Lock()
	id, storage, cache := b.id, b.storage, b.cache
	if b.disposed {
		b.lock.Unlock()
		return errors.New(errors.KindInvalidResource, op, "%s is disposed", b.name())
	}
	if storage == nil {
		b.lock.Unlock()
		return errors.New(errors.KindInvalidResource, op, "%s has no storage engine", b.name())
	}
	b.refs++
	b.lock.Unlock()

	if EmptyID(id) {
		id = storagemodels.NewEntry
	}
	data := b.ModelData()
	finish := func(err error) {
		if cb != nil {
			cb(err)
		}
		b.Dispose()
	}
	err := storage.Store(ctx, func(stored any, err error) {
		if err != nil {
			finish(err)
			return
		}
		if datastore.IsNewEntry(id) {
			b.SetID(stored)
		}
		if cache != nil {
			if cerr := cache.Store(ctx, func(any, error) {}, stored, data); cerr != nil {
				b.log.Warn("cache update failed", zap.String("model", b.name()), zap.Error(cerr))
			}
		}
		b.log.Debug("stored", zap.String("model", b.name()), zap.Any("id", stored))
		finish(nil)
	}, id, data)
	if err != nil {
		b.Dispose()
		return err
	}
	return nil
}

// Remove deletes the model data from storage and cache.
func (b *Base) Remove(ctx context.Context, cb func(error)) error {
	const op = "model.Remove"
	b.lock.Lock()
	id, storage, cache := b.id, b.storage, b.cache
	if err := b.ready(op, id, storage); err != nil {
		b.lock.Unlock()
		return err
	}
	b.refs++
	b.lock.Unlock()

	err := storage.Remove(ctx, func(err error) {
		if err == nil && cache != nil {
			if cerr := cache.Remove(ctx, func(error) {}, id); cerr != nil {
				b.log.Warn("cache removal failed", zap.String("model", b.name()), zap.Error(cerr))
			}
		}
		if cb != nil {
			cb(err)
		}
		b.Dispose()
	}, id)
	if err != nil {
		b.Dispose()
		return err
	}
	return nil
}

// ready checks that an operation on id can start. The lock must be held.
func (b *Base) ready(op string, id any, storage datastore.Engine) error {
	switch {
	case b.disposed:
		return errors.New(errors.KindInvalidResource, op, "%s is disposed", b.name())
	case EmptyID(id):
		return errors.New(errors.KindNoId, op, "%s has no id", b.name())
	case storage == nil:
		return errors.New(errors.KindInvalidResource, op, "%s has no storage engine", b.name())
	}
	return nil
}

func (b *Base) apply(op string, id any, data any) error {
	if data == nil {
		return errors.NewNotFoundError(b.name(), datastore.FormatID(id))
	}
	values, ok := data.(map[string]any)
	if !ok {
		return errors.New(errors.KindInvalidData, op, "expected an object, got %T", data)
	}
	return b.UpdateDataViaMappings(values)
}

func (b *Base) name() string {
	return fmt.Sprintf("%T", b.self)
}
