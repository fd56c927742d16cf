/*
Package model provides the reference-counted model base and its change notification.

A model type embeds Base, defines its attributes with the mapping package and
initializes the Base in its constructor:

	type Person struct {
	    model.Base
	    name string
	}

	var personAttrs = mapping.Define[Person](nil, mapping.Attribute{
	    Name: "name",
	    Get:  func(m any) any { return m.(*Person).Name() },
	    Set:  func(m any, v any) error { m.(*Person).SetName(v.(string)); return nil },
	})

	func NewPerson(id any, opts model.Options) *Person {
	    p := &Person{}
	    p.Init(p, personAttrs, id, opts)
	    return p
	}

	func (p *Person) Name() string     { return model.Read(&p.Base, &p.name) }
	func (p *Person) SetName(n string) { model.Assign(&p.Base, &p.name, n, "name") }

Setters report changes only when the value differs. Changes made within the notifier
delay are delivered as one events.Changed event listing all changed attributes.

Every holder of a model takes a reference with IncreaseReferenceCounter and gives it
back with Dispose; the last Dispose emits events.Deleted exactly once. Load, Store and
Remove hold a reference while in flight.
*/
package model
