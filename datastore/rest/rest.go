/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/storagemodels"
)

// IDField is the response field carrying the id assigned on POST.
const IDField = "id"

// Storage is a datastore.Engine for a REST resource at /<version>/<resourceID>.
// Requests run on their own goroutine and every failure goes to the callback.
type Storage struct {
	baseURL    string
	version    string
	resourceID string
	manager    *Manager
	keys       datastore.KeyValidator
	log        *zap.Logger
}

var _ datastore.Engine = (*Storage)(nil)

// Option configures a Storage.
type Option func(*Storage)

// WithManager replaces DefaultManager.
func WithManager(m *Manager) Option {
	return func(s *Storage) {
		s.manager = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		s.log = logging.OrNop(l)
	}
}

// New creates a Storage on the shared connection for baseURL.
func New(baseURL, version, resourceID string, opts ...Option) *Storage {
	s := &Storage{
		baseURL:    baseURL,
		version:    version,
		resourceID: resourceID,
		keys:       datastore.EntryKeys,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.manager == nil {
		s.manager = DefaultManager()
	}
	return s
}

func (s *Storage) IsAvailable() bool {
	return s.manager.IsAvailable(s.baseURL)
}

// Path returns the resource path of an id, or the collection path for nil.
func (s *Storage) Path(id any) string {
	p := "/" + url.PathEscape(s.version) + "/" + url.PathEscape(s.resourceID)
	if id == nil {
		return p
	}
	return p + "/" + url.PathEscape(datastore.FormatID(id))
}

// Load GETs one resource per id, or the collection with offset, limit and fields as
// query parameters when id is nil.
func (s *Storage) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "rest.Load", "callback required")
	}
	if id != nil && !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "rest.Load", "id %v", id))
		return nil
	}
	query := queryParams(opts)
	go func() {
		if id == nil {
			cb(s.get(ctx, nil, query))
			return
		}
		ids, multi := datastore.IDs(id)
		results := make([]any, len(ids))
		for i, one := range ids {
			v, err := s.get(ctx, one, query)
			if err != nil {
				cb(nil, err)
				return
			}
			results[i] = v
		}
		if multi {
			cb(results, nil)
		} else {
			cb(results[0], nil)
		}
	}()
	return nil
}

// Store POSTs data for storagemodels.NewEntry and PUTs it to every other id.
func (s *Storage) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "rest.Store", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "rest.Store", "id %v", id))
		return nil
	}
	if datastore.IsMissingData(data) {
		cb(nil, errors.New(errors.KindMissingData, "rest.Store", "no data for id %v", id))
		return nil
	}
	go func() {
		if datastore.IsNewEntry(id) {
			cb(s.create(ctx, data))
			return
		}
		ids, _ := datastore.IDs(id)
		for _, one := range ids {
			if _, err := s.send(ctx, resty.MethodPut, one, data); err != nil {
				cb(nil, err)
				return
			}
		}
		cb(id, nil)
	}()
	return nil
}

// Remove DELETEs every id.
func (s *Storage) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "rest.Remove", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(errors.New(errors.KindInvalidKey, "rest.Remove", "id %v", id))
		return nil
	}
	go func() {
		ids, _ := datastore.IDs(id)
		for _, one := range ids {
			if _, err := s.send(ctx, resty.MethodDelete, one, nil); err != nil {
				cb(err)
				return
			}
		}
		cb(nil)
	}()
	return nil
}

func (s *Storage) connection() *Connection {
	return s.manager.Connection(s.baseURL)
}

func (s *Storage) get(ctx context.Context, id any, query map[string]string) (any, error) {
	resp, err := s.connection().Do(ctx, resty.MethodGet, s.Path(id), query, nil)
	if err != nil {
		return nil, err
	}
	if err := s.check(resp, id); err != nil {
		return nil, err
	}
	return decodeBody(resp)
}

func (s *Storage) send(ctx context.Context, method string, id any, data any) (any, error) {
	resp, err := s.connection().Do(ctx, method, s.Path(id), nil, data)
	if err != nil {
		return nil, err
	}
	if err := s.check(resp, id); err != nil {
		return nil, err
	}
	return decodeBody(resp)
}

func (s *Storage) create(ctx context.Context, data any) (any, error) {
	resp, err := s.connection().Do(ctx, resty.MethodPost, s.Path(nil), nil, data)
	if err != nil {
		return nil, err
	}
	if err := s.check(resp, nil); err != nil {
		return nil, err
	}
	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	obj, ok := body.(map[string]any)
	if !ok || obj[IDField] == nil {
		return nil, errors.New(errors.KindInvalidData, "rest.Store", "response carries no %q field", IDField)
	}
	return normalizeID(obj[IDField]), nil
}

func (s *Storage) check(resp *resty.Response, id any) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		key := ""
		if id != nil {
			key = datastore.FormatID(id)
		}
		return errors.NewNotFoundError(s.resourceID, key)
	case resp.IsError():
		return fmt.Errorf("%s %s: unexpected status %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	}
	return nil
}

func decodeBody(resp *resty.Response) (any, error) {
	raw := resp.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(errors.KindInvalidData, "rest.decode", err)
	}
	return v, nil
}

// normalizeID turns integral JSON numbers into int64.
func normalizeID(id any) any {
	if f, ok := id.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return id
}

func queryParams(opts *storagemodels.LoadOptions) map[string]string {
	if opts == nil {
		return nil
	}
	q := map[string]string{}
	if opts.Offset != nil {
		q["offset"] = strconv.Itoa(*opts.Offset)
	}
	if opts.Limit != nil {
		q["limit"] = strconv.Itoa(*opts.Limit)
	}
	if opts.HasFields() {
		q["fields"] = strings.Join(opts.Fields, ",")
	}
	return q
}
