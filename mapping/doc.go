/*
Package mapping describes models as ordered attribute lists.

An Attribute bridges an internal field and its external (storage, template) form through
a getter and setter, optionally wrapped by helpers. A model type's Set is its parent's
attributes followed by its own, merged once when the type is defined:

	var personAttrs = mapping.Define[Person](nil,
	    mapping.Attribute{Name: "name", Get: ..., Set: ...},
	)
	var employeeAttrs = mapping.Define[Employee](personAttrs,
	    mapping.Attribute{Name: "salary", Get: ..., Set: ...},
	)

Apply performs a partial update from external data and Extract exports all attributes.
For matching helpers Apply(s, m, Extract(s, m)) leaves m unchanged.
*/
package mapping
