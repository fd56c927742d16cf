/*
Package errors provides the error taxonomy shared by every resourcekit package.

Each failure has a Kind. Every kind owns a sentinel error that can be checked with the
standard errors.Is() function or with the helper functions:

	var (
	    ErrInvalidKey         = errors.New("invalid key")
	    ErrMissingData        = errors.New("missing data")
	    ErrInvalidField       = errors.New("invalid field")
	    ErrSupernumerousTag   = errors.New("supernumerous tag")
	    ErrNotFound           = errors.New("not found")
	    ErrAlreadyRegistered  = errors.New("already registered")
	    ...
	)

Usage:

	err := datastore.LoadSync(ctx, engine, "42", nil)
	if err != nil {
	    switch errors.KindOf(err) {
	    case errors.KindInvalidKey:
	        // programmer error
	    case errors.KindNotFound:
	        // remote entity vanished
	    }
	}

	// Create kinded errors
	err := errors.New(errors.KindInvalidKey, "localcache.Load", "id %v", id)
	err := errors.NewNotFoundError("model type", "Person")
	err := errors.NewFieldError("age", "not a column")

Where a failure is reported (returned synchronously or passed to a storage callback) is
decided per storage engine; the kinds are the same everywhere.
*/
package errors
