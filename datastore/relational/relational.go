/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package relational

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/storagemodels"
	"github.com/suparena/resourcekit/tags"
)

// IDColumn is the primary key column of every resource table.
const IDColumn = "id"

// offsetOnlyLimit is the row limit used when only an offset is requested; MySQL
// accepts OFFSET only after LIMIT.
const offsetOnlyLimit = "18446744073709551610"

// Result is the outcome of a query. Rows is set for statements returning rows.
type Result struct {
	Rows         []map[string]any
	InsertID     int64
	AffectedRows int64
}

// QueryCallback receives the outcome of a query.
type QueryCallback func(res *Result, err error)

// Connection executes SQL and knows the dialect's quoting.
type Connection interface {
	Query(ctx context.Context, cb QueryCallback, sql string, values ...any)
	Escape(v any) string
	EscapeID(id string) string
}

// Storage builds SQL for the columns of one attribute set.
//
// Malformed calls fail synchronously with the returned error and no query is issued.
// Query outcomes are passed to the callback.
type Storage struct {
	conn      Connection
	columns   []string
	permitted map[string]struct{}
	keys      datastore.KeyValidator
	log       *zap.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		s.log = logging.OrNop(l)
	}
}

// New creates a Storage. The permitted columns are the attribute names of attrs.
func New(conn Connection, attrs *mapping.Set, opts ...Option) *Storage {
	s := &Storage{
		conn:      conn,
		columns:   attrs.Names(),
		permitted: map[string]struct{}{},
		keys:      datastore.EntryKeys,
		log:       zap.NewNop(),
	}
	for _, c := range s.columns {
		s.permitted[c] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Columns returns the permitted columns in attribute order.
func (s *Storage) Columns() []string {
	return append([]string(nil), s.columns...)
}

// IsAvailable reports the connection's availability if it tracks one.
func (s *Storage) IsAvailable() bool {
	if a, ok := s.conn.(interface{ IsAvailable() bool }); ok {
		return a.IsAvailable()
	}
	return s.conn != nil
}

// Load selects the rows of resourceID with the given id (all rows for a nil id).
// A scalar id yields its row or nil, otherwise the callback receives a []any of rows.
func (s *Storage) Load(ctx context.Context, cb storagemodels.LoadCallback, resourceID string, id any, opts *storagemodels.LoadOptions) error {
	const op = "relational.Load"
	if err := s.validate(op, cb != nil, resourceID); err != nil {
		return err
	}
	if id != nil {
		if err := s.validID(op, id); err != nil {
			return err
		}
	}

	columns := "*"
	if opts.HasFields() {
		if err := s.validFields(op, opts.Fields); err != nil {
			return err
		}
		quoted := make([]string, len(opts.Fields))
		for i, f := range opts.Fields {
			quoted[i] = s.conn.EscapeID(f)
		}
		columns = strings.Join(quoted, ", ")
	}

	sql := join("SELECT", columns, "FROM", s.conn.EscapeID(resourceID), s.where(id), limitClause(opts))
	_, multi := datastore.IDs(id)
	s.query(ctx, sql, func(res *Result, err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		if id != nil && !multi {
			if len(res.Rows) == 0 {
				cb(nil, nil)
				return
			}
			cb(res.Rows[0], nil)
			return
		}
		rows := make([]any, len(res.Rows))
		for i, r := range res.Rows {
			rows[i] = r
		}
		cb(rows, nil)
	})
	return nil
}

// Store inserts data for storagemodels.NewEntry and updates the rows of id otherwise.
// The callback receives the inserted id or id itself.
func (s *Storage) Store(ctx context.Context, cb storagemodels.StoreCallback, resourceID string, id any, data any) error {
	const op = "relational.Store"
	if err := s.validate(op, cb != nil, resourceID); err != nil {
		return err
	}
	if err := s.validID(op, id); err != nil {
		return err
	}
	values, err := s.validData(op, data)
	if err != nil {
		return err
	}
	if datastore.IsNewEntry(id) {
		s.Insert(ctx, func(res *Result, err error) {
			if err != nil {
				cb(nil, err)
				return
			}
			cb(res.InsertID, nil)
		}, resourceID, values)
		return nil
	}
	s.Update(ctx, func(_ *Result, err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		cb(id, nil)
	}, resourceID, id, values)
	return nil
}

// Remove deletes the rows of id.
func (s *Storage) Remove(ctx context.Context, cb storagemodels.Callback, resourceID string, id any) error {
	const op = "relational.Remove"
	if err := s.validate(op, cb != nil, resourceID); err != nil {
		return err
	}
	if err := s.validID(op, id); err != nil {
		return err
	}
	s.Delete(ctx, func(_ *Result, err error) {
		cb(err)
	}, resourceID, id)
	return nil
}

// Insert issues an INSERT of values. Values must be validated by the caller.
func (s *Storage) Insert(ctx context.Context, cb QueryCallback, resourceID string, values map[string]any) {
	s.query(ctx, join("INSERT INTO", s.conn.EscapeID(resourceID), "SET", s.assignments(values)), cb)
}

// Update issues an UPDATE of the rows of id.
func (s *Storage) Update(ctx context.Context, cb QueryCallback, resourceID string, id any, values map[string]any) {
	s.query(ctx, join("UPDATE", s.conn.EscapeID(resourceID), "SET", s.assignments(values), s.where(id)), cb)
}

// Delete issues a DELETE of the rows of id.
func (s *Storage) Delete(ctx context.Context, cb QueryCallback, resourceID string, id any) {
	s.query(ctx, join("DELETE FROM", s.conn.EscapeID(resourceID), s.where(id)), cb)
}

// Template substitutes every {{key}} of tpl with the escaped value of key.
// A tag without value fails with errors.KindSupernumerousTag.
func (s *Storage) Template(tpl string, values map[string]any) (string, error) {
	return tags.Expand(tpl, values, s.conn.Escape)
}

// Exec expands a template and runs it. Nothing is executed unless every tag has a value.
func (s *Storage) Exec(ctx context.Context, cb QueryCallback, tpl string, values map[string]any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "relational.Exec", "callback required")
	}
	sql, err := s.Template(tpl, values)
	if err != nil {
		return err
	}
	s.query(ctx, sql, cb)
	return nil
}

func (s *Storage) query(ctx context.Context, sql string, cb QueryCallback) {
	s.log.Debug("query", zap.String("sql", sql))
	s.conn.Query(ctx, cb, sql)
}

func (s *Storage) validate(op string, hasCallback bool, resourceID string) error {
	if !hasCallback {
		return errors.New(errors.KindInvalidCallback, op, "callback required")
	}
	if resourceID == "" {
		return errors.New(errors.KindInvalidResource, op, "resource id required")
	}
	return nil
}

func (s *Storage) validID(op string, id any) error {
	if !s.keys.IsValidID(id) {
		return errors.New(errors.KindInvalidKey, op, "id %v", id)
	}
	return nil
}

func (s *Storage) validData(op string, data any) (map[string]any, error) {
	values, ok := data.(map[string]any)
	if !ok || len(values) == 0 {
		return nil, errors.New(errors.KindInvalidData, op, "expected a non-empty object, got %T", data)
	}
	for k := range values {
		if _, ok := s.permitted[k]; !ok {
			return nil, errors.NewFieldError(k, "not a column of the mapping")
		}
	}
	return values, nil
}

func (s *Storage) validFields(op string, fields []string) error {
	if len(fields) == 0 {
		return errors.NewFieldError("", op+": empty field list")
	}
	for _, f := range fields {
		if _, ok := s.permitted[f]; !ok {
			return errors.NewFieldError(f, "not a column of the mapping")
		}
	}
	return nil
}

func (s *Storage) where(id any) string {
	if id == nil {
		return "WHERE 1"
	}
	if _, multi := datastore.IDs(id); multi {
		return "WHERE " + s.conn.EscapeID(IDColumn) + " IN (" + s.conn.Escape(id) + ")"
	}
	return "WHERE " + s.conn.EscapeID(IDColumn) + " = " + s.conn.Escape(id)
}

// assignments lists the values in column order.
func (s *Storage) assignments(values map[string]any) string {
	parts := make([]string, 0, len(values))
	for _, c := range s.columns {
		if v, ok := values[c]; ok {
			parts = append(parts, s.conn.EscapeID(c)+"="+s.conn.Escape(v))
		}
	}
	return strings.Join(parts, ", ")
}

func limitClause(opts *storagemodels.LoadOptions) string {
	if opts == nil {
		return ""
	}
	switch {
	case opts.Limit != nil && opts.Offset != nil:
		return "LIMIT " + datastore.FormatID(*opts.Limit) + " OFFSET " + datastore.FormatID(*opts.Offset)
	case opts.Limit != nil:
		return "LIMIT " + datastore.FormatID(*opts.Limit)
	case opts.Offset != nil:
		return "LIMIT " + offsetOnlyLimit + " OFFSET " + datastore.FormatID(*opts.Offset)
	}
	return ""
}

func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Table is a Storage bound to one resource, usable as a datastore.Engine.
type Table struct {
	s          *Storage
	resourceID string
}

var _ datastore.Engine = (*Table)(nil)

// Bind returns the engine view of one resource table.
func (s *Storage) Bind(resourceID string) *Table {
	return &Table{s: s, resourceID: resourceID}
}

func (t *Table) ResourceID() string {
	return t.resourceID
}

func (t *Table) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	return t.s.Load(ctx, cb, t.resourceID, id, opts)
}

func (t *Table) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	return t.s.Store(ctx, cb, t.resourceID, id, data)
}

func (t *Table) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	return t.s.Remove(ctx, cb, t.resourceID, id)
}

func (t *Table) IsAvailable() bool {
	return t.s.IsAvailable()
}
