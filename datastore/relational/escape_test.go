/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package relational

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	date := time.Date(2024, 3, 5, 7, 8, 9, 123000000, time.Local)
	s := "x"

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "NULL"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"string", "Jane", "'Jane'"},
		{"quotes", `a'b"c`, `'a\'b\"c'`},
		{"control", "a\nb\tc\x00", `'a\nb\tc\0'`},
		{"backslash", `a\b`, `'a\\b'`},
		{"bytes", []byte{0x01, 0xab}, "X'01ab'"},
		{"date", date, "'2024-03-05 07:08:09.123'"},
		{"list", []any{1, "a"}, "1, 'a'"},
		{"nested list", []any{[]any{1, 2}, []any{3, 4}}, "(1, 2), (3, 4)"},
		{"object", map[string]any{"b": 2, "a": "x"}, "`a` = 'x', `b` = 2"},
		{"pointer", &s, "'x'"},
		{"nil pointer", (*string)(nil), "NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escape(tt.value))
		})
	}
}

func TestEscapeID(t *testing.T) {
	assert.Equal(t, "`test`", EscapeID("test"))
	assert.Equal(t, "`db`.`test`", EscapeID("db.test"))
	assert.Equal(t, "`a``b`", EscapeID("a`b"))
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, returnsRows("SELECT * FROM `test`"))
	assert.True(t, returnsRows("  select 1"))
	assert.False(t, returnsRows("INSERT INTO `test` SET `a`=1"))
	assert.False(t, returnsRows(""))
}
