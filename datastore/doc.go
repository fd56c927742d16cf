/*
Package datastore defines the storage engine capability shared by every backend.

The main interface is Engine:

	type Engine interface {
	    Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error
	    Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error
	    Remove(ctx context.Context, cb storagemodels.Callback, id any) error
	    IsAvailable() bool
	}

An identifier is a string, a number, or a non-empty slice of those. A slice fans out: the
load callback then receives a []any in the same order.

Storing storagemodels.NewEntry asks the engine to assign an identifier, which the store
callback receives. Data for which IsMissingData holds (nil, false, zero, NaN, "" and nil
references) is rejected with errors.KindMissingData by every engine reporting through
its callback. The relational engine accepts column maps only and rejects anything else
synchronously.

Implementations:
  - localcache: key/value backed engine with type tags and a time-aware caching decorator
  - rest: facade over a shared connection manager keyed by base URL
  - relational: SQL engine validating calls synchronously against its column set
  - ddb: DynamoDB document engine
  - mock: in-memory engine with injectable failures for testing

LoadSync, StoreSync and RemoveSync wait for the callback of a single call.
*/
package datastore
