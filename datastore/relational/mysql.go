/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/internal/logging"
)

// pingTimeout bounds IsAvailable.
const pingTimeout = 2 * time.Second

// DB is a MySQL Connection over database/sql. Queries run on their own goroutine.
type DB struct {
	db   *sql.DB
	name string
	log  *zap.Logger
}

var _ Connection = (*DB)(nil)

// Open connects to the MySQL server described by dsn
// (for example "user:password@tcp(localhost:3306)/app?parseTime=true").
func Open(dsn string, log *zap.Logger) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}
	return &DB{
		db:   sql.OpenDB(connector),
		name: cfg.DBName,
		log:  logging.OrNop(log),
	}, nil
}

// Name returns the database name of the DSN.
func (d *DB) Name() string {
	return d.name
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := d.db.PingContext(ctx); err != nil {
		d.log.Warn("mysql unavailable", zap.Error(err))
		return false
	}
	return true
}

func (d *DB) Escape(v any) string {
	return Escape(v)
}

func (d *DB) EscapeID(id string) string {
	return EscapeID(id)
}

// Query runs query with "?" placeholders bound to values and calls back with the rows
// of a SELECT-like statement or the insert id and affected row count otherwise.
func (d *DB) Query(ctx context.Context, cb QueryCallback, query string, values ...any) {
	go func() {
		res, err := d.run(ctx, query, values)
		if err != nil {
			d.log.Debug("query failed", zap.String("sql", query), zap.Error(err))
		}
		cb(res, err)
	}()
}

func (d *DB) run(ctx context.Context, query string, values []any) (*Result, error) {
	if returnsRows(query) {
		rows, err := d.db.QueryContext(ctx, query, values...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanRows(rows)
	}
	r, err := d.db.ExecContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	if res.InsertID, err = r.LastInsertId(); err != nil {
		return nil, err
	}
	if res.AffectedRows, err = r.RowsAffected(); err != nil {
		return nil, err
	}
	return res, nil
}

func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "DESCRIBE", "EXPLAIN":
		return true
	}
	return false
}

func scanRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}
