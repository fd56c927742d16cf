/*
Package localcache implements the local key/value storage engine and its expiring cache
decorator.

Values live in a Backend under "<prefix>-<version>-<resource>-<id>" with a type tag
stored at the same key suffixed ":t":

	N  number (integral values load as int64, others as float64)
	S  string
	J  JSON document (sonic)
	D  date (milliseconds since the epoch, loads as time.Time)

Storing storagemodels.NewEntry stores under a fresh UUID and reports it to the callback.
A list of ids with a list of data of the same length stores the values pairwise, so
[a b] with ["x" "y"] writes "x" under a and "y" under b. Any other data, including a
list of another length, is stored whole under every id.

The Cache additionally records the store time under ":d" and treats entries older than
its expiry as absent:

	backend := localcache.NewMemoryBackend()
	cache := localcache.NewCache(localcache.New(backend, "1", "person"),
	    localcache.WithExpiry(time.Hour))

Both engines call back synchronously and report every failure but a missing callback
through the callback.
*/
package localcache
