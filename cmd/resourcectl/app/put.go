/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
)

func NewPut(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <resource> <id>|new <json>",
		Short: "store a resource, new lets the engine assign the id",
		Args:  cobra.ExactArgs(3),
	}
	cmd.RunE = opts.runE(func(ctx context.Context, args []string) error {
		resource, id := args[0], ParseID(args[1])

		var data any
		if err := sonic.UnmarshalString(args[2], &data); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		storage, cache, err := opts.Engines(ctx, resource)
		if err != nil {
			return err
		}
		stored, err := datastore.StoreSync(ctx, storage, id, data)
		if err != nil {
			return err
		}
		if cache != nil {
			if _, err := datastore.StoreSync(ctx, cache, stored, data); err != nil {
				opts.log.Warn("cache update failed", zap.Error(err))
			}
		}
		return opts.Print(map[string]any{"id": stored})
	})
	return cmd
}
