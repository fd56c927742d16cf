/*
Package collection provides Collection, a keyed set of models.

Members are keyed by their identifier. The collection holds one reference to every
member, taken on AddItem and given back on RemoveItem, RemoveAll and Dispose:

	c := collection.New()
	c.On(events.Added, events.HandlerFunc(func(e events.Event) {
	    fmt.Println("added", e.Item)
	}))

	if err := c.AddItem(person); err != nil {
	    // errors.KindWrongType or errors.KindNoId
	}
	defer c.Dispose()

Validation failures are returned synchronously.
*/
package collection
