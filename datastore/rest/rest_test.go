/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/storagemodels"
)

// resourceServer serves /1/person with an in-memory store.
type resourceServer struct {
	mu     sync.Mutex
	items  map[string]any
	nextID int
	query  string
}

func (rs *resourceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rest, ok := strings.CutPrefix(r.URL.Path, "/1/person")
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	id := strings.TrimPrefix(rest, "/")
	rs.query = r.URL.RawQuery

	switch {
	case r.Method == http.MethodGet && id == "":
		list := []any{}
		for _, v := range rs.items {
			list = append(list, v)
		}
		_ = json.NewEncoder(w).Encode(list)
	case r.Method == http.MethodGet:
		v, ok := rs.items[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	case r.Method == http.MethodPost:
		var v map[string]any
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &v)
		rs.nextID++
		v["id"] = rs.nextID
		rs.items[jsonString(rs.nextID)] = v
		_ = json.NewEncoder(w).Encode(v)
	case r.Method == http.MethodPut:
		var v any
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &v)
		rs.items[id] = v
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete:
		if _, ok := rs.items[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(rs.items, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func jsonString(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func testConfig() ConnectionConfig {
	return ConnectionConfig{Timeout: 5 * time.Second, RetryCount: 0}
}

func newTestStorage(t *testing.T) (*Storage, *resourceServer) {
	rs := &resourceServer{items: map[string]any{}}
	srv := httptest.NewServer(rs)
	t.Cleanup(srv.Close)
	return New(srv.URL, "1", "person", WithManager(NewManager(testConfig(), nil))), rs
}

func TestPath(t *testing.T) {
	s := New("http://localhost", "1", "person", WithManager(NewManager(testConfig(), nil)))
	assert.Equal(t, "/1/person", s.Path(nil))
	assert.Equal(t, "/1/person/42", s.Path(42))
	assert.Equal(t, "/1/person/a%2Fb", s.Path("a/b"))
}

func TestStoreAndLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	id, err := datastore.StoreSync(ctx, s, storagemodels.NewEntry, map[string]any{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	loaded, err := datastore.LoadSync(ctx, s, id, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Jane", "id": float64(1)}, loaded)

	_, err = datastore.StoreSync(ctx, s, 2, map[string]any{"name": "John"})
	require.NoError(t, err)

	loaded, err = datastore.LoadSync(ctx, s, []any{2, 1}, nil)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "John", loaded.([]any)[0].(map[string]any)["name"])

	all, err := datastore.LoadSync(ctx, s, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, s.IsAvailable())
}

func TestLoadQuery(t *testing.T) {
	ctx := context.Background()
	s, rs := newTestStorage(t)

	opts := storagemodels.NewLoadOptions(storagemodels.WithOffset(5), storagemodels.WithLimit(10), storagemodels.WithFields("a", "b"))
	_, err := datastore.LoadSync(ctx, s, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "fields=a%2Cb&limit=10&offset=5", rs.query)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	_, err := datastore.LoadSync(ctx, s, "missing", nil)
	assert.True(t, errors.IsNotFound(err))

	err = datastore.RemoveSync(ctx, s, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, rs := newTestStorage(t)

	_, err := datastore.StoreSync(ctx, s, []any{"a", "b"}, "value")
	require.NoError(t, err)
	require.NoError(t, datastore.RemoveSync(ctx, s, []any{"a", "b"}))
	assert.Empty(t, rs.items)
}

func TestErrorsGoToCallback(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	_, err := datastore.LoadSync(ctx, s, []any{}, nil)
	assert.True(t, errors.IsInvalidKey(err))
	_, err = datastore.StoreSync(ctx, s, 0, "x")
	assert.True(t, errors.IsInvalidKey(err))
	for _, data := range []any{nil, false, "", 0} {
		_, err = datastore.StoreSync(ctx, s, 1, data)
		assert.True(t, errors.IsKind(err, errors.KindMissingData), "data %v", data)
	}

	assert.True(t, errors.IsKind(s.Load(ctx, nil, 1, nil), errors.KindInvalidCallback))
}

func TestOffline(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := NewManager(testConfig(), nil)
	s := New(url, "1", "person", WithManager(m))
	assert.True(t, s.IsAvailable())

	_, err := datastore.LoadSync(ctx, s, 1, nil)
	assert.Error(t, err)
	assert.False(t, s.IsAvailable())
	assert.False(t, m.IsAvailable(url))
}

func TestManagerSharesConnections(t *testing.T) {
	m := NewManager(testConfig(), nil)
	assert.Same(t, m.Connection("http://a"), m.Connection("http://a/"))
	assert.NotSame(t, m.Connection("http://a"), m.Connection("http://b"))
	assert.Same(t, DefaultManager(), DefaultManager())
}

func TestPing(t *testing.T) {
	s, _ := newTestStorage(t)
	require.NoError(t, s.connection().Ping(context.Background()))
}
