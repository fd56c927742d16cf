/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"math"
	"reflect"
)

// IsMissingData reports values that do not count as data for a store: nil, false,
// zero numbers, NaN, the empty string and nil references. Every engine rejects them
// with errors.KindMissingData.
func IsMissingData(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float32:
		return t == 0 || math.IsNaN(float64(t))
	case float64:
		return t == 0 || math.IsNaN(t)
	}
	if n, ok := Number(v); ok {
		return n == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
