/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/suparena/resourcekit"
)

func NewVersion(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "show version information",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = opts.runE(func(ctx context.Context, args []string) error {
		return opts.Print(resourcekit.GetVersionInfo())
	})
	return cmd
}
