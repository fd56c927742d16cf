/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/suparena/resourcekit"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/model/testmodels"
	"github.com/suparena/resourcekit/registry"
)

const (
	PeopleResource    = "people"
	EmployeesResource = "employees"
)

func NewPerson(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person <cmd> <args>",
		Short: "access people through the Person model",
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "load a person",
		Args:  cobra.ExactArgs(1),
	}
	get.RunE = opts.runE(func(ctx context.Context, args []string) error {
		if err := opts.bindPeople(ctx); err != nil {
			return err
		}
		id := ParseID(args[0])
		m, err := registry.GetResourceByID("Person", id)
		if err != nil {
			return err
		}
		defer testmodels.ReleasePerson(id)
		defer m.Dispose()

		p := m.(*testmodels.Person)
		if err := await(ctx, p.Load); err != nil {
			return err
		}
		return opts.Print(p.ModelData())
	})

	put := &cobra.Command{
		Use:   "put <id>|new <json>",
		Short: "store a person",
		Args:  cobra.ExactArgs(2),
	}
	put.RunE = opts.runE(func(ctx context.Context, args []string) error {
		if err := opts.bindPeople(ctx); err != nil {
			return err
		}
		var data map[string]any
		if err := sonic.UnmarshalString(args[1], &data); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		var id any
		if args[0] != "new" {
			id = ParseID(args[0])
		}
		m, err := registry.Default().Construct("Person", id)
		if err != nil {
			return err
		}
		defer m.Dispose()

		p := m.(*testmodels.Person)
		if err := p.UpdateDataViaMappings(data); err != nil {
			return err
		}
		if err := await(ctx, p.Store); err != nil {
			return err
		}
		return opts.Print(map[string]any{"id": p.ID()})
	})

	cmd.AddCommand(get, put)
	return cmd
}

// bindPeople attaches Person to the engines of the people resource and registers the
// example models.
func (o *Options) bindPeople(ctx context.Context) error {
	storage, cache, err := o.Engines(ctx, PeopleResource)
	if err != nil {
		return err
	}
	bs := resourcekit.DefaultBindings()
	if err := resourcekit.Unbind[testmodels.Person](bs); err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err := resourcekit.Bind[testmodels.Person](bs, resourcekit.Binding{
		Storage: storage,
		Cache:   cache,
		Delay:   o.cfg.Notifier.Delay,
		Logger:  o.log.Logger,
	}); err != nil {
		return err
	}
	if err := testmodels.Register(registry.Default()); err != nil && !errors.IsAlreadyRegistered(err) {
		return err
	}
	return nil
}

// await runs a model operation and waits for its callback.
func await(ctx context.Context, op func(context.Context, func(error)) error) error {
	done := make(chan error, 1)
	if err := op(ctx, func(err error) { done <- err }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
