/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localcache

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/suparena/resourcekit/datastore"
)

// TypeTag is the one-character type marker stored next to every value.
type TypeTag string

const (
	TagNumber TypeTag = "N"
	TagString TypeTag = "S"
	TagJSON   TypeTag = "J"
	TagDate   TypeTag = "D"
)

func encode(v any) (string, TypeTag, error) {
	switch t := v.(type) {
	case string:
		return t, TagString, nil
	case time.Time:
		return strconv.FormatInt(t.UnixMilli(), 10), TagDate, nil
	}
	if _, ok := datastore.Number(v); ok {
		return datastore.FormatID(v), TagNumber, nil
	}
	raw, err := sonic.MarshalString(v)
	if err != nil {
		return "", "", fmt.Errorf("cannot encode %T: %w", v, err)
	}
	return raw, TagJSON, nil
}

// decode restores a value. Integral numbers decode as int64, other numbers as float64.
// A missing or unknown tag yields the raw string.
func decode(raw string, tag string) (any, error) {
	switch TypeTag(tag) {
	case TagNumber:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		return strconv.ParseFloat(raw, 64)
	case TagDate:
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(ms), nil
	case TagJSON:
		var v any
		if err := sonic.UnmarshalString(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return raw, nil
}
