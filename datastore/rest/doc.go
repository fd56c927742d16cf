/*
Package rest implements the REST storage engine.

Resources live at <base>/<version>/<resource>/<id>. Load issues GET, Store issues PUT
(POST to the collection for storagemodels.NewEntry, reading the assigned id from the
response), Remove issues DELETE. A 404 is reported as errors.ErrNotFound.
Data for which datastore.IsMissingData holds is rejected before any request.

Connections are shared per base URL through a Manager. A Connection uses resty over a
go-retryablehttp transport, an optional rate limiter and sonic for JSON, and goes offline
when a request cannot reach the server:

	s := rest.New("https://api.example.com", "1", "person")
	if s.IsAvailable() { ... }
*/
package rest
