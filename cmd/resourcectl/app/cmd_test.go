/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/resourcekit"
	"github.com/suparena/resourcekit/cmd/resourcectl/app"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/storagemodels"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "storage:\n" +
		"  backend: local\n" +
		"  path: " + filepath.Join(dir, "store.json") + "\n" +
		"cache:\n" +
		"  path: " + filepath.Join(dir, "cache.json") + "\n" +
		"logging:\n" +
		"  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(cfg string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := app.New(&buf)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(writeConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "`+resourcekit.Version+`"`)
}

func TestPutGetRemove(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(cfg, "put", "people", "1", `{"name":"Ada","age":36}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": 1`)

	out, err = run(cfg, "get", "people", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)
	assert.Contains(t, out, `"age": 36`)

	out, err = run(cfg, "get", "people", "1", "--fields", "name", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: Ada\n", out)

	_, err = run(cfg, "get", "people", "2")
	assert.True(t, errors.IsNotFound(err))

	_, err = run(cfg, "rm", "people", "1")
	require.NoError(t, err)

	_, err = run(cfg, "get", "people", "1")
	assert.True(t, errors.IsNotFound(err))
}

func TestPerson(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(cfg, "person", "put", "5", `{"name":"Grace","email":"grace@example.com"}`)
	require.NoError(t, err)

	out, err := run(cfg, "person", "get", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "grace@example.com"`)
	assert.Contains(t, out, `"name": "Grace"`)

	_, err = run(cfg, "person", "put", "6", `{"email":"bogus"}`)
	assert.True(t, errors.IsKind(err, errors.KindInvalidData))

	_, err = run(cfg, "person", "get", "7")
	assert.True(t, errors.IsNotFound(err))
}

func TestInvalidUsage(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(cfg, "--backend", "nope", "get", "people", "1")
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = run(cfg, "--backend", "mysql", "get", "people", "1")
	assert.ErrorContains(t, err, "needs a DSN")

	_, err = run(cfg, "--backend", "mysql", "get", "things", "1")
	assert.ErrorContains(t, err, "no attribute mapping")

	_, err = run(cfg, "put", "people", "1", "{not json")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = run(cfg, "-o", "xml", "version")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestParseID(t *testing.T) {
	assert.Equal(t, storagemodels.NewEntry, app.ParseID("new"))
	assert.Equal(t, int64(42), app.ParseID("42"))
	assert.Equal(t, "abc", app.ParseID("abc"))
}
