/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resourcekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/resourcekit/datastore/mock"
	"github.com/suparena/resourcekit/errors"
)

type testUser struct{}

type testProduct struct{}

func TestBindings(t *testing.T) {
	t.Run("BindAndLookup", func(t *testing.T) {
		bs := NewBindings()
		storage, cache := mock.New(), mock.New()

		require.NoError(t, Bind[testUser](bs, Binding{Storage: storage, Cache: cache, RestURL: "http://api", AutoStore: true}))

		b, err := BindingFor[testUser](bs)
		require.NoError(t, err)
		assert.Same(t, storage, b.Storage)

		opts := b.Options()
		assert.Same(t, storage, opts.Storage)
		assert.Same(t, cache, opts.Cache)
		assert.Equal(t, "http://api", opts.RestURL)
		assert.True(t, opts.AutoStore)
	})

	t.Run("TypeIsolation", func(t *testing.T) {
		bs := NewBindings()
		users, products := mock.New(), mock.New()
		require.NoError(t, Bind[testUser](bs, Binding{Storage: users}))
		require.NoError(t, Bind[testProduct](bs, Binding{Storage: products}))

		u, _ := BindingFor[testUser](bs)
		p, _ := BindingFor[testProduct](bs)
		assert.Same(t, users, u.Storage)
		assert.Same(t, products, p.Storage)
		assert.Len(t, bs.Types(), 2)
	})

	t.Run("Errors", func(t *testing.T) {
		bs := NewBindings()

		_, err := BindingFor[testUser](bs)
		assert.True(t, errors.IsNotFound(err))

		assert.True(t, errors.IsKind(Bind[testUser](bs, Binding{}), errors.KindInvalidData))

		require.NoError(t, Bind[testUser](bs, Binding{Storage: mock.New()}))
		assert.True(t, errors.IsAlreadyRegistered(Bind[testUser](bs, Binding{Storage: mock.New()})))
	})

	t.Run("Unbind", func(t *testing.T) {
		bs := NewBindings()
		require.NoError(t, Bind[testUser](bs, Binding{Storage: mock.New()}))
		require.NoError(t, Unbind[testUser](bs))

		_, err := BindingFor[testUser](bs)
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, errors.IsNotFound(Unbind[testUser](bs)))

		require.NoError(t, Bind[testUser](bs, Binding{Storage: mock.New()}))
	})
}

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
