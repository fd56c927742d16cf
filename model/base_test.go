/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/datastore/localcache"
	"github.com/suparena/resourcekit/datastore/mock"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/events"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/storagemodels"
)

type person struct {
	Base
	name string
	age  int
	city string
}

var personAttrs = mapping.NewSet(nil,
	mapping.Attribute{
		Name: "name",
		Get:  func(m any) any { return m.(*person).Name() },
		Set: func(m any, v any) error {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("name: expected string, got %T", v)
			}
			m.(*person).SetName(s)
			return nil
		},
		AutoStore: true,
	},
	mapping.Attribute{
		Name: "age",
		Get:  func(m any) any { return m.(*person).Age() },
		Set: func(m any, v any) error {
			n, ok := datastore.Number(v)
			if !ok {
				return fmt.Errorf("age: expected number, got %T", v)
			}
			m.(*person).SetAge(int(n))
			return nil
		},
	},
	mapping.Attribute{
		Name: "city",
		Get:  func(m any) any { return m.(*person).City() },
		Set:  func(m any, v any) error { m.(*person).SetCity(v.(string)); return nil },
	},
)

func newPerson(id any, opts Options) *person {
	p := &person{}
	p.Init(p, personAttrs, id, opts)
	return p
}

func (p *person) Name() string     { return Read(&p.Base, &p.name) }
func (p *person) SetName(n string) { Assign(&p.Base, &p.name, n, "name") }
func (p *person) Age() int         { return Read(&p.Base, &p.age) }
func (p *person) SetAge(a int)     { Assign(&p.Base, &p.age, a, "age") }
func (p *person) City() string     { return Read(&p.Base, &p.city) }
func (p *person) SetCity(c string) { Assign(&p.Base, &p.city, c, "city") }

// recorder collects events.
type recorder struct {
	lock   sync.Mutex
	events []events.Event
}

func (r *recorder) HandleEvent(e events.Event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(kind events.Kind) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last() events.Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.events[len(r.events)-1]
}

func TestReferenceCounting(t *testing.T) {
	p := newPerson(1, Options{})
	rec := &recorder{}
	p.On(events.Deleted, rec)
	assert.Equal(t, 1, p.ReferenceCount())

	p.IncreaseReferenceCounter()
	p.Dispose()
	assert.False(t, p.IsDisposed())
	assert.Equal(t, 1, p.ReferenceCount())
	assert.Equal(t, 0, rec.count(events.Deleted))

	p.Dispose()
	assert.True(t, p.IsDisposed())
	assert.Equal(t, 1, rec.count(events.Deleted))
	assert.Same(t, p, rec.last().Source)

	p.Dispose()
	p.IncreaseReferenceCounter()
	assert.Equal(t, 1, rec.count(events.Deleted))
	assert.Equal(t, 0, p.ReferenceCount())
}

func TestDebounceCoalescing(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Now())
	p := newPerson(1, Options{Clock: clk})
	rec := &recorder{}
	p.On(events.Changed, rec)

	p.SetName("Jane")
	p.SetAge(30)
	p.SetCity("Oakville")
	assert.Equal(t, []string{"name", "age", "city"}, p.notifier.Pending())

	clk.Step(DefaultDelay - time.Millisecond)
	assert.Equal(t, 0, rec.count(events.Changed))

	clk.Step(time.Millisecond)
	assert.Eventually(t, func() bool { return rec.count(events.Changed) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"name", "age", "city"}, rec.last().Attributes)

	clk.Step(time.Second)
	assert.Never(t, func() bool { return rec.count(events.Changed) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestUnchangedValueDoesNotNotify(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Now())
	p := newPerson(1, Options{Clock: clk})

	p.SetName("")
	assert.Empty(t, p.notifier.Pending())
	assert.False(t, clk.HasWaiters())

	p.SetName("Jane")
	clk.Step(30 * time.Millisecond)
	p.SetName("Jane")
	p.SetAge(3)
	assert.Equal(t, []string{"name", "age"}, p.notifier.Pending())

	rec := &recorder{}
	p.On(events.Changed, rec)
	clk.Step(20 * time.Millisecond)
	assert.Eventually(t, func() bool { return rec.count(events.Changed) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"name", "age"}, rec.last().Attributes)
}

func TestDisposeCancelsNotification(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Now())
	p := newPerson(1, Options{Clock: clk})
	rec := &recorder{}
	p.On("", rec)

	p.SetName("Jane")
	p.Dispose()
	clk.Step(time.Second)

	assert.Never(t, func() bool { return rec.count(events.Changed) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 1, rec.count(events.Deleted))

	p.SetName("John")
	assert.Empty(t, p.notifier.Pending())
}

func TestFlushChanges(t *testing.T) {
	p := newPerson(1, Options{Clock: testingclock.NewFakeClock(time.Now())})
	rec := &recorder{}
	p.On(events.Changed, rec)

	p.SetCity("Toronto")
	p.FlushChanges()
	assert.Equal(t, 1, rec.count(events.Changed))
	p.FlushChanges()
	assert.Equal(t, 1, rec.count(events.Changed))
}

func TestMappingRoundTrip(t *testing.T) {
	p := newPerson(1, Options{Clock: testingclock.NewFakeClock(time.Now())})
	require.NoError(t, p.UpdateDataViaMappings(map[string]any{"name": "Jane", "age": 30, "city": "Oakville"}))

	data := p.ModelData()
	assert.Equal(t, map[string]any{"name": "Jane", "age": 30, "city": "Oakville"}, data)

	q := newPerson(2, Options{Clock: testingclock.NewFakeClock(time.Now())})
	require.NoError(t, q.UpdateDataViaMappings(data))
	assert.Equal(t, data, q.ModelData())

	require.NoError(t, q.UpdateDataViaMappings(map[string]any{"city": "Toronto"}))
	assert.Equal(t, "Jane", q.Name())
	assert.Equal(t, "Toronto", q.City())

	assert.Error(t, q.UpdateDataViaMappings(map[string]any{"name": 5}))
}

func newCache() *localcache.Cache {
	return localcache.NewCache(localcache.New(localcache.NewMemoryBackend(), "1", "person"))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	storage := mock.New()
	storage.SetData(map[string]any{"1": map[string]any{"name": "Jane", "age": float64(30)}})
	cache := newCache()
	clk := testingclock.NewFakeClock(time.Now())

	p := newPerson(1, Options{Storage: storage, Cache: cache, Clock: clk})
	var loadErr error
	require.NoError(t, p.Load(ctx, func(err error) { loadErr = err }))
	require.NoError(t, loadErr)
	assert.Equal(t, "Jane", p.Name())
	assert.Equal(t, 30, p.Age())
	assert.True(t, p.DataLoaded())
	assert.False(t, p.Loading())
	assert.Equal(t, 1, p.ReferenceCount())

	cached, err := datastore.LoadSync(ctx, cache, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Jane", "age": float64(30)}, cached)

	storage.WithLoadError(assert.AnError)
	q := newPerson(1, Options{Storage: storage, Cache: cache, Clock: clk})
	require.NoError(t, q.Load(ctx, func(err error) { loadErr = err }))
	require.NoError(t, loadErr)
	assert.Equal(t, "Jane", q.Name())
	assert.Equal(t, 1, storage.Calls("load"), "cached data must not hit storage")
}

func TestLoadFailures(t *testing.T) {
	ctx := context.Background()
	storage := mock.New()

	p := newPerson(nil, Options{Storage: storage})
	assert.True(t, errors.IsKind(p.Load(ctx, nil), errors.KindNoId))
	assert.True(t, errors.IsKind(p.Remove(ctx, nil), errors.KindNoId))

	p = newPerson(1, Options{})
	assert.True(t, errors.IsKind(p.Load(ctx, nil), errors.KindInvalidResource))

	p = newPerson(42, Options{Storage: storage})
	var loadErr error
	require.NoError(t, p.Load(ctx, func(err error) { loadErr = err }))
	assert.True(t, errors.IsNotFound(loadErr))
	assert.False(t, p.DataLoaded())
	assert.Equal(t, 1, p.ReferenceCount())
}

func TestStoreNewEntry(t *testing.T) {
	ctx := context.Background()
	storage := mock.New()
	cache := newCache()

	p := newPerson(nil, Options{Storage: storage, Cache: cache, Clock: testingclock.NewFakeClock(time.Now())})
	p.SetName("Jane")
	var storeErr error
	require.NoError(t, p.Store(ctx, func(err error) { storeErr = err }))
	require.NoError(t, storeErr)
	assert.Equal(t, int64(1), p.ID())
	assert.Equal(t, map[string]any{"name": "Jane", "age": 0, "city": ""}, storage.GetData()["1"])
	assert.Equal(t, 1, p.ReferenceCount())

	cached, err := datastore.LoadSync(ctx, cache, int64(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane", cached.(map[string]any)["name"])

	require.NoError(t, p.Remove(ctx, func(err error) { storeErr = err }))
	require.NoError(t, storeErr)
	assert.Equal(t, 0, storage.Count())
}

func TestStoreNewEntriesLocal(t *testing.T) {
	ctx := context.Background()
	storage := localcache.New(localcache.NewMemoryBackend(), "1", "people")

	store := func(name string) *person {
		p := newPerson(nil, Options{Storage: storage})
		p.SetName(name)
		var storeErr error
		require.NoError(t, p.Store(ctx, func(err error) { storeErr = err }))
		require.NoError(t, storeErr)
		return p
	}
	a, b := store("Ada"), store("Grace")
	assert.NotEqual(t, storagemodels.NewEntry, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	for _, p := range []*person{a, b} {
		data, err := datastore.LoadSync(ctx, storage, p.ID(), nil)
		require.NoError(t, err)
		assert.Equal(t, p.Name(), data.(map[string]any)["name"])
	}
}

func TestStoreErrorReleasesReference(t *testing.T) {
	ctx := context.Background()
	storage := mock.New().WithStoreError(assert.AnError)
	p := newPerson(1, Options{Storage: storage})

	var storeErr error
	require.NoError(t, p.Store(ctx, func(err error) { storeErr = err }))
	assert.ErrorIs(t, storeErr, assert.AnError)
	assert.Equal(t, 1, p.ReferenceCount())
}

func TestDisposeWhileLoading(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	storage := mock.New().WithAsync().WithLoadFunc(func(any) (any, error) {
		<-release
		return map[string]any{"name": "Jane"}, nil
	})
	p := newPerson(1, Options{Storage: storage})
	rec := &recorder{}
	p.On(events.Deleted, rec)

	done := make(chan error, 1)
	require.NoError(t, p.Load(ctx, func(err error) { done <- err }))
	assert.Equal(t, 2, p.ReferenceCount())

	p.Dispose()
	assert.False(t, p.IsDisposed(), "the load holds a reference")

	close(release)
	require.NoError(t, <-done)
	assert.Eventually(t, p.IsDisposed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.count(events.Deleted))
}

func TestAutoStore(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Now())
	storage := mock.New()
	p := newPerson(1, Options{Storage: storage, Clock: clk, AutoStore: true})

	p.SetCity("Oakville")
	clk.Step(DefaultDelay)
	assert.Never(t, func() bool { return storage.Calls("store") > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	p.SetName("Jane")
	clk.Step(DefaultDelay)
	assert.Eventually(t, func() bool { return storage.Calls("store") == 1 }, time.Second, 5*time.Millisecond)

	p.SetAutoStore(false)
	p.SetName("John")
	clk.Step(DefaultDelay)
	assert.Never(t, func() bool { return storage.Calls("store") > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestLoadDoesNotAutoStore(t *testing.T) {
	ctx := context.Background()
	clk := testingclock.NewFakeClock(time.Now())
	storage := mock.New()
	storage.SetData(map[string]any{"1": map[string]any{"name": "Jane"}})
	p := newPerson(1, Options{Storage: storage, Clock: clk, AutoStore: true})
	rec := &recorder{}
	p.On(events.Changed, rec)

	require.NoError(t, p.Load(ctx, nil))
	clk.Step(DefaultDelay)
	assert.Eventually(t, func() bool { return rec.count(events.Changed) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, storage.Calls("store"))
}
