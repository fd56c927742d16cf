/*
Package ddb implements a DynamoDB storage engine.

All items of a resource share one partition whose key is expanded from a template
(DefaultKeyTemplate, "{{prefix}}-{{version}}-{{resource}}"); the sort key is the id and
the data is kept in the Value attribute:

	client, err := ddb.NewClient(ctx, accessKey, secretKey, "us-east-1")
	s, err := ddb.New(client, "resources", "1", "person")

Storing storagemodels.NewEntry assigns a UUID. Loading without id pages through the
partition with Query, honouring offset and limit. Like the REST engine, every failure
but a missing callback is reported through the callback.
*/
package ddb
