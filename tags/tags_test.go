/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/resourcekit/errors"
)

func quote(v any) string {
	return fmt.Sprintf("'%v'", v)
}

func TestExpand(t *testing.T) {
	t.Run("all tags satisfied", func(t *testing.T) {
		out, err := Expand("name = {{name}} AND age = {{ age }} OR alias = {{name}}",
			map[string]any{"name": "Jane", "age": 42, "unused": 1}, quote)
		require.NoError(t, err)
		assert.Equal(t, "name = 'Jane' AND age = '42' OR alias = 'Jane'", out)
	})

	t.Run("missing tag fails closed", func(t *testing.T) {
		out, err := Expand("{{a}}-{{b}}-{{c}}", map[string]any{"a": 1}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSupernumerousTag))
		assert.Contains(t, err.Error(), "b, c")
		assert.Empty(t, out)
	})

	t.Run("plain escape", func(t *testing.T) {
		out, err := Expand("{{prefix}}-{{version}}-{{resource}}", map[string]any{
			"prefix": "resourcekit", "version": 2, "resource": "people",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "resourcekit-2-people", out)
	})

	t.Run("no tags", func(t *testing.T) {
		out, err := Expand("SELECT 1", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", out)
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Names("{{a}} {{b}} {{a}}"))
	assert.Nil(t, Names("none"))
}
