/*
Package tags expands {{key}} templates.

	sql, err := tags.Expand("SELECT * FROM users WHERE name = {{name}}", map[string]any{
	    "name": "Jane",
	}, conn.Escape)

Every tag must be satisfied. A template with a tag lacking a value fails with
errors.KindSupernumerousTag instead of being substituted with a default.
*/
package tags
