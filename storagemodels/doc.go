/*
Package storagemodels defines the data structures shared by all storage engines.

Key Types:

LoadOptions:
Options narrowing a load:

	opts := storagemodels.NewLoadOptions(
	    storagemodels.WithOffset(4),
	    storagemodels.WithLimit(10),
	    storagemodels.WithFields("first_name", "second_name"),
	)

Callbacks:
Engines report their outcome through callbacks, each call carrying its own closure:

	type LoadCallback func(data any, err error)
	type StoreCallback func(id any, err error)
	type Callback func(err error)

NewEntry:
The sentinel identifier (-1) asking an engine to assign a fresh identifier on store.
*/
package storagemodels
