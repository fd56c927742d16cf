/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/model"
)

type widget struct {
	model.Base
}

var widgetAttrs = mapping.NewSet(nil)

func newWidget(id any) (model.Model, error) {
	w := &widget{}
	w.Init(w, widgetAttrs, id, model.Options{})
	return w, nil
}

func widgetConstructor() (Constructor, *model.Table[model.Model]) {
	table := model.NewTable[model.Model]()
	return Constructor{
		New: newWidget,
		GetResourceByID: func(id any) (model.Model, error) {
			return table.Get(id, newWidget)
		},
	}, table
}

func TestRegisterModel(t *testing.T) {
	r := New()
	c, _ := widgetConstructor()

	require.NoError(t, r.RegisterModel("Widget", c))

	err := r.RegisterModel("Widget", c)
	assert.True(t, errors.IsAlreadyRegistered(err))

	err = r.RegisterModel("Gadget", Constructor{New: newWidget})
	assert.True(t, errors.IsKind(err, errors.KindMissingFunction))

	err = r.RegisterModel("", c)
	assert.True(t, errors.IsKind(err, errors.KindInvalidResource))

	assert.Equal(t, []string{"Widget"}, r.Names())
}

func TestMustRegisterModel(t *testing.T) {
	r := New()
	c, _ := widgetConstructor()

	assert.NotPanics(t, func() { r.MustRegisterModel("Widget", c) })
	assert.Panics(t, func() { r.MustRegisterModel("Widget", c) })
}

func TestGetConstructorByID(t *testing.T) {
	r := New()
	c, _ := widgetConstructor()
	r.MustRegisterModel("Widget", c)

	got, err := r.GetConstructorByID("Widget")
	require.NoError(t, err)
	assert.NotNil(t, got.GetResourceByID)

	_, err = r.GetConstructorByID("Unknown")
	assert.True(t, errors.IsNotFound(err))

	_, err = r.GetResourceByID("Unknown", 1)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetResourceByID(t *testing.T) {
	r := New()
	c, table := widgetConstructor()
	r.MustRegisterModel("Widget", c)

	a, err := r.GetResourceByID("Widget", 7)
	require.NoError(t, err)
	b, err := r.GetResourceByID("Widget", 7)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 3, a.ReferenceCount())
	assert.Equal(t, 1, table.Len())

	_, err = r.GetResourceByID("Widget", nil)
	assert.True(t, errors.IsKind(err, errors.KindNoId))
}

func TestConstruct(t *testing.T) {
	r := New()
	c, _ := widgetConstructor()
	r.MustRegisterModel("Widget", c)

	a, err := r.Construct("Widget", 1)
	require.NoError(t, err)
	b, err := r.Construct("Widget", 1)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 1, a.ReferenceCount())

	r.MustRegisterModel("Shared", Constructor{GetResourceByID: c.GetResourceByID})
	_, err = r.Construct("Shared", 1)
	assert.True(t, errors.IsKind(err, errors.KindMissingFunction))
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, Default(), Default())

	c, _ := widgetConstructor()
	require.NoError(t, RegisterModel("registry_test.Widget", c))
	assert.Panics(t, func() { MustRegisterModel("registry_test.Widget", c) })

	_, err := GetConstructorByID("registry_test.Widget")
	require.NoError(t, err)

	m, err := GetResourceByID("registry_test.Widget", "w-1")
	require.NoError(t, err)
	assert.Equal(t, "w-1", m.ID())
}
