/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localcache

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/storagemodels"
)

// DefaultExpiry is the age after which a cached value counts as absent.
const DefaultExpiry = time.Hour

const dateSuffix = ":d"

// Cache decorates a Storage with store timestamps. A value without timestamp, or
// with a timestamp older than the expiry, loads as nil; an expired value is evicted.
type Cache struct {
	s      *Storage
	clock  clock.PassiveClock
	expiry time.Duration
}

var _ datastore.Engine = (*Cache)(nil)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithExpiry sets the expiry window.
func WithExpiry(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.expiry = d
	}
}

// WithClock sets the clock used for timestamps.
func WithClock(cl clock.PassiveClock) CacheOption {
	return func(c *Cache) {
		c.clock = cl
	}
}

// NewCache wraps a Storage.
func NewCache(s *Storage, opts ...CacheOption) *Cache {
	c := &Cache{
		s:      s,
		clock:  clock.RealClock{},
		expiry: DefaultExpiry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Storage returns the decorated storage.
func (c *Cache) Storage() *Storage {
	return c.s
}

func (c *Cache) IsAvailable() bool {
	return c.s.IsAvailable()
}

// Load checks the timestamp of every id before reading its value.
func (c *Cache) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Cache.Load", "callback required")
	}
	if !c.s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "localcache.Cache.Load", "id %v", id))
		return nil
	}
	ids, multi := datastore.IDs(id)
	if !multi {
		if !c.fresh(id) {
			cb(nil, nil)
			return nil
		}
		return c.s.Load(ctx, cb, id, opts)
	}
	results := make([]any, len(ids))
	for i, one := range ids {
		if !c.fresh(one) {
			continue
		}
		v, err := c.s.loadOne(one, opts)
		if err != nil {
			cb(nil, err)
			return nil
		}
		results[i] = v
	}
	cb(results, nil)
	return nil
}

// fresh reports whether the value of a scalar id is present and not expired.
// Expired values are evicted.
func (c *Cache) fresh(id any) bool {
	key := c.s.Key(id)
	raw, ok := c.s.backend.GetItem(key + dateSuffix)
	if !ok {
		return false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	age := c.clock.Since(time.UnixMilli(ms))
	if err == nil && age <= c.expiry {
		return true
	}
	for _, k := range []string{key, key + typeSuffix, key + dateSuffix} {
		if err := c.s.backend.RemoveItem(k); err != nil {
			c.s.log.Warn("cache eviction failed", zap.String("key", k), zap.Error(err))
		}
	}
	c.s.log.Debug("cache entry expired", zap.String("key", key), zap.Duration("age", age))
	return false
}

// Store writes the values and records the store time for every id.
func (c *Cache) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Cache.Store", "callback required")
	}
	return c.s.Store(ctx, func(stored any, err error) {
		if err == nil {
			now := strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
			ids, _ := datastore.IDs(stored)
			for _, one := range ids {
				if serr := c.s.backend.SetItem(c.s.Key(one)+dateSuffix, now); serr != nil {
					err = serr
					break
				}
			}
		}
		cb(stored, err)
	}, id, data)
}

// Remove deletes the values and their timestamps.
func (c *Cache) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "localcache.Cache.Remove", "callback required")
	}
	if c.s.keys.IsValidID(id) {
		ids, _ := datastore.IDs(id)
		for _, one := range ids {
			if err := c.s.backend.RemoveItem(c.s.Key(one) + dateSuffix); err != nil {
				cb(err)
				return nil
			}
		}
	}
	return c.s.Remove(ctx, cb, id)
}
