/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/resourcekit"
	"github.com/suparena/resourcekit/datastore/localcache"
	"github.com/suparena/resourcekit/datastore/relational"
	"github.com/suparena/resourcekit/datastore/rest"
	"github.com/suparena/resourcekit/internal/config"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/storagemodels"
)

// Options are shared by all commands.
type Options struct {
	configFile string
	backend    string
	output     string
	noCache    bool

	out     io.Writer
	cfg     *config.Config
	log     *logging.Logger
	engines resourcekit.Engines
	closers []func() error
	files   map[string]*localcache.FileBackend
	db      *relational.DB
	rest    *rest.Manager
}

func New(out io.Writer) *cobra.Command {
	opts := &Options{out: out}

	maincmd := &cobra.Command{
		Use:   "resourcectl <options> <cmd> <args>",
		Short: "access resources through the configured storage engine",
		Long: `
This command reads and writes resources through one of the storage
engines (local, rest, mysql, dynamodb) selected by the configuration,
with the local cache in front of it.
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return opts.setup() },
	}
	maincmd.SetOut(out)

	flags := maincmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.backend, "backend", "b", "", "storage engine, overrides the configuration")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format (json or yaml)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "bypass the local cache")

	maincmd.AddCommand(NewVersion(opts))
	maincmd.AddCommand(NewGet(opts))
	maincmd.AddCommand(NewPut(opts))
	maincmd.AddCommand(NewRemove(opts))
	maincmd.AddCommand(NewPerson(opts))
	return maincmd
}

func (o *Options) setup() error {
	var err error
	if o.configFile != "" {
		o.cfg, err = config.LoadFile(o.configFile)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.backend != "" {
		o.cfg.Storage.Backend = o.backend
	}

	o.log, err = logging.New(logging.Config{
		Level:       o.cfg.Logging.Level,
		Development: o.cfg.Logging.Development,
	})
	if err != nil {
		return err
	}
	o.engines = resourcekit.NewEngines()
	return nil
}

// close releases what setup and the engines opened.
func (o *Options) close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](); err != nil && o.log != nil {
			o.log.Warn("close failed", zap.Error(err))
		}
	}
	o.closers = nil
	o.files = nil
	o.db = nil
	o.rest = nil
	if o.log != nil {
		_ = o.log.Sync()
	}
}

// runE wraps a command body so that everything opened for it is released.
func (o *Options) runE(run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer o.close()
		return run(cmd.Context(), args)
	}
}

// Print writes v in the selected output format.
func (o *Options) Print(v any) error {
	var data []byte
	var err error
	switch o.output {
	case "yaml":
		data, err = yaml.Marshal(v)
	case "json", "":
		data, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
	if err != nil {
		return err
	}
	_, err = o.out.Write(data)
	return err
}

// ParseID turns a command line identifier into an engine identifier: "new" is
// storagemodels.NewEntry, integers are numbers and everything else is a string.
func ParseID(arg string) any {
	if arg == "new" {
		return storagemodels.NewEntry
	}
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n
	}
	return arg
}
