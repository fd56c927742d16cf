/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/resourcekit/storagemodels"
)

type loadResult struct {
	data any
	err  error
}

// LoadSync runs a load and waits for its callback or the end of the context.
func LoadSync(ctx context.Context, e Engine, id any, opts *storagemodels.LoadOptions) (any, error) {
	ch := make(chan loadResult, 1)
	err := e.Load(ctx, func(data any, err error) {
		ch <- loadResult{data, err}
	}, id, opts)
	if err != nil {
		return nil, err
	}
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// StoreSync runs a store and waits for its callback or the end of the context.
// It returns the persisted identifier.
func StoreSync(ctx context.Context, e Engine, id any, data any) (any, error) {
	ch := make(chan loadResult, 1)
	err := e.Store(ctx, func(id any, err error) {
		ch <- loadResult{id, err}
	}, id, data)
	if err != nil {
		return nil, err
	}
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RemoveSync runs a remove and waits for its callback or the end of the context.
func RemoveSync(ctx context.Context, e Engine, id any) error {
	ch := make(chan error, 1)
	err := e.Remove(ctx, func(err error) {
		ch <- err
	}, id)
	if err != nil {
		return err
	}
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
