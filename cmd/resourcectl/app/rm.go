/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
)

func NewRemove(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <resource> <id> {<id>}",
		Aliases: []string{"delete"},
		Short:   "remove resources",
		Args:    cobra.MinimumNArgs(2),
	}
	cmd.RunE = opts.runE(func(ctx context.Context, args []string) error {
		resource := args[0]
		var id any
		if len(args) == 2 {
			id = ParseID(args[1])
		} else {
			list := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				list = append(list, ParseID(arg))
			}
			id = list
		}

		storage, cache, err := opts.Engines(ctx, resource)
		if err != nil {
			return err
		}
		if err := datastore.RemoveSync(ctx, storage, id); err != nil {
			return err
		}
		if cache != nil {
			if err := datastore.RemoveSync(ctx, cache, id); err != nil {
				opts.log.Warn("cache removal failed", zap.Error(err))
			}
		}
		opts.log.Info("removed", zap.String("resource", resource), zap.Any("id", id))
		return nil
	})
	return cmd
}
