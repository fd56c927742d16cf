/*
Package registry maps model type names to their constructors.

The registry enables:
  - Construction of models from a type name carried in data or on the command line
  - Shared instances per identifier through the type's GetResourceByID
  - Fresh, unshared instances through the type's New

Registration:

	registry.MustRegisterModel("Person", registry.Constructor{
	    New: func(id any) (model.Model, error) {
	        return testmodels.NewPerson(id, opts), nil
	    },
	    GetResourceByID: func(id any) (model.Model, error) {
	        return testmodels.GetPersonByID(id)
	    },
	})

	p, err := registry.GetResourceByID("Person", 42)

A name is registered at most once; lookups of unknown names fail with a NotFoundError.
The registry is thread-safe and should be populated during initialization. Use New for
an isolated registry, for example in tests.
*/
package registry
