/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/resourcekit/storagemodels"
)

// Engine is the capability every storage backend implements.
//
// Outcomes of the actual I/O are passed to the callback. The returned error is the
// synchronous channel: engines validating calls against a known schema fail fast there,
// before any I/O is started, and then never invoke the callback.
type Engine interface {
	Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error

	Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error

	Remove(ctx context.Context, cb storagemodels.Callback, id any) error

	IsAvailable() bool
}
