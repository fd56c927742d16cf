/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package relational

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/suparena/resourcekit/datastore"
)

var literalEscaper = strings.NewReplacer(
	"\x00", `\0`,
	"\b", `\b`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
	`"`, `\"`,
	`'`, `\'`,
	`\`, `\\`,
)

// Escape renders a value as a MySQL literal. Slices become comma-joined lists (nested
// slices are parenthesized) and maps become `key` = value pairs in key order.
func Escape(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return "'" + literalEscaper.Replace(t) + "'"
	case []byte:
		return "X'" + hex.EncodeToString(t) + "'"
	case time.Time:
		return "'" + t.Format("2006-01-02 15:04:05.000") + "'"
	case fmt.Stringer:
		return Escape(t.String())
	}
	if _, ok := datastore.Number(v); ok {
		return datastore.FormatID(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL"
		}
		return Escape(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			e := rv.Index(i).Interface()
			if k := reflect.ValueOf(e).Kind(); e != nil && (k == reflect.Slice || k == reflect.Array) {
				if _, isBytes := e.([]byte); !isBytes {
					parts[i] = "(" + Escape(e) + ")"
					continue
				}
			}
			parts[i] = Escape(e)
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			values[ks] = rv.MapIndex(k).Interface()
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = EscapeID(k) + " = " + Escape(values[k])
		}
		return strings.Join(parts, ", ")
	}
	return Escape(fmt.Sprint(v))
}

// EscapeID quotes an identifier with backticks. A dotted name is quoted per part.
func EscapeID(id string) string {
	parts := strings.Split(id, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}
