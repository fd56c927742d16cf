/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/storagemodels"
)

type Get struct {
	cmd *cobra.Command

	mainopts *Options
	fields   []string
	offset   int
	limit    int
}

func NewGet(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <resource> {<id>} <options>",
		Short: "get resources, all of them if no id is given",
		Args:  cobra.MinimumNArgs(1),
	}

	c := &Get{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = opts.runE(c.Run)
	flags := cmd.Flags()
	flags.StringSliceVarP(&c.fields, "fields", "f", nil, "restrict objects to fields")
	flags.IntVar(&c.offset, "offset", 0, "listing offset")
	flags.IntVar(&c.limit, "limit", 0, "listing limit")
	return cmd
}

func (c *Get) options() *storagemodels.LoadOptions {
	var opts []storagemodels.LoadOption
	if len(c.fields) > 0 {
		opts = append(opts, storagemodels.WithFields(c.fields...))
	}
	if c.offset > 0 {
		opts = append(opts, storagemodels.WithOffset(c.offset))
	}
	if c.limit > 0 {
		opts = append(opts, storagemodels.WithLimit(c.limit))
	}
	return storagemodels.NewLoadOptions(opts...)
}

func (c *Get) Run(ctx context.Context, args []string) error {
	resource := args[0]
	var id any
	switch ids := args[1:]; len(ids) {
	case 0:
	case 1:
		id = ParseID(ids[0])
	default:
		list := make([]any, len(ids))
		for i, arg := range ids {
			list[i] = ParseID(arg)
		}
		id = list
	}

	storage, cache, err := c.mainopts.Engines(ctx, resource)
	if err != nil {
		return err
	}
	opts := c.options()

	// Only plain reads of single resources go through the cache.
	cached := cache != nil && opts == nil && id != nil
	if cached {
		data, err := datastore.LoadSync(ctx, cache, id, nil)
		if err == nil && data != nil {
			c.mainopts.log.Debug("cache hit", zap.String("resource", resource), zap.Any("id", id))
			return c.mainopts.Print(data)
		}
	}

	data, err := datastore.LoadSync(ctx, storage, id, opts)
	if err != nil {
		return err
	}
	if data == nil {
		return errors.NewNotFoundError(resource, datastore.FormatID(id))
	}
	if cached {
		if _, err := datastore.StoreSync(ctx, cache, id, data); err != nil {
			c.mainopts.log.Warn("cache update failed", zap.Error(err))
		}
	}
	return c.mainopts.Print(data)
}
