/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/suparena/resourcekit/storagemodels"
)

// KeyValidator decides whether an identifier, or a list of identifiers, is acceptable.
type KeyValidator interface {
	IsValidID(id any) bool
}

// ScalarValidatorFunc validates a single identifier. Lists are handled by the validator
// built from it.
type ScalarValidatorFunc func(id any) bool

// IsValidID accepts a valid scalar or a non-empty list whose every element is a valid scalar.
func (f ScalarValidatorFunc) IsValidID(id any) bool {
	ids, multi := IDs(id)
	if multi && len(ids) == 0 {
		return false
	}
	for _, e := range ids {
		if _, nested := IDs(e); nested || !f(e) {
			return false
		}
	}
	return true
}

// DefaultKeys accepts non-empty strings and finite numbers.
var DefaultKeys KeyValidator = ScalarValidatorFunc(func(id any) bool {
	if s, ok := id.(string); ok {
		return s != ""
	}
	_, ok := Number(id)
	return ok
})

// EntryKeys accepts non-empty strings, positive numbers and storagemodels.NewEntry.
var EntryKeys KeyValidator = ScalarValidatorFunc(func(id any) bool {
	if s, ok := id.(string); ok {
		return s != ""
	}
	n, ok := Number(id)
	return ok && (n > 0 || n == storagemodels.NewEntry)
})

// IsValidID validates with DefaultKeys.
func IsValidID(id any) bool {
	return DefaultKeys.IsValidID(id)
}

// IsNewEntry checks for the new-entry sentinel.
func IsNewEntry(id any) bool {
	if _, multi := IDs(id); multi {
		return false
	}
	n, ok := Number(id)
	return ok && n == storagemodels.NewEntry
}

// IDs normalizes an identifier argument. A slice yields its elements and true,
// anything else yields a one-element list and false.
func IDs(id any) ([]any, bool) {
	switch v := id.(type) {
	case []any:
		return v, true
	case []string:
		r := make([]any, len(v))
		for i, e := range v {
			r[i] = e
		}
		return r, true
	case nil, string:
		return []any{v}, false
	}
	rv := reflect.ValueOf(id)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{id}, false
	}
	r := make([]any, rv.Len())
	for i := range r {
		r[i] = rv.Index(i).Interface()
	}
	return r, true
}

// Number returns the numeric value of a finite number of any Go numeric type.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float(n)
	case int8:
		f = float(n)
	case int16:
		f = float(n)
	case int32:
		f = float(n)
	case int64:
		f = float(n)
	case uint:
		f = float(n)
	case uint8:
		f = float(n)
	case uint16:
		f = float(n)
	case uint32:
		f = float(n)
	case uint64:
		f = float(n)
	case float32:
		f = float(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func float[T constraints.Integer | constraints.Float](v T) float64 {
	return float64(v)
}

// FormatID renders a scalar identifier the way it appears in keys and paths.
func FormatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(id)
}
