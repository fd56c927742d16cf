/*
Package resourcekit is a small resource-model framework: models whose attributes are
described by mapping sets, persisted through pluggable callback-style storage engines
(local key/value cache, REST, MySQL, DynamoDB), reference counted, and observed through
debounced change events.

The library is organised in layers:
  - datastore: the Engine interface, key validation and the engines themselves
  - mapping: attribute lists per model type, merged with the parent type's list
  - model: the reference counted Base, the change notifier and per-type instance tables
  - collection and registry: membership of models and construction by type name

This package ties the layers together with a named engine manager and per-type bindings:

	engines := resourcekit.DefaultEngines()
	db, _ := relational.Open(dsn, log)
	people := relational.New(db, testmodels.PersonAttributes()).Bind("people")
	resourcekit.MustRegisterEngine(engines, "people", people)

	cache := localcache.NewCache(localcache.New(localcache.NewMemoryBackend(), "v1", "people"))
	resourcekit.Bind[testmodels.Person](resourcekit.DefaultBindings(), resourcekit.Binding{
	    Storage: people,
	    Cache:   cache,
	})

	p, _ := testmodels.GetPersonByID(42)
	defer p.Dispose()
	err := p.Load(ctx, func(err error) { ... })

For more information, see the documentation at https://github.com/suparena/resourcekit
*/
package resourcekit
