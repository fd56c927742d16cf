/*
Package relational implements the SQL storage engine (MySQL dialect).

A Storage is created for the attribute set of a model type; the attribute names are the
only permitted columns. Every call is validated before any query is issued and malformed
calls fail with the returned error:

	s := relational.New(conn, personAttrs)
	err := s.Load(ctx, cb, "person", 1, nil)
	// SELECT * FROM `person` WHERE `id` = 1

Storing storagemodels.NewEntry inserts a row and reports the assigned id; any other id
updates the matching rows. Templates with {{key}} tags are expanded with escaped values
and are never executed with an unresolved tag.

Open returns a Connection backed by database/sql and github.com/go-sql-driver/mysql.
*/
package relational
