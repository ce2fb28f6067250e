// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// opcodegen generates the C opcode header from an instruction set definition.
package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"zb.256lights.llc/opcodegen"
	"zb.256lights.llc/opcodegen/internal/generr"
	"zb.256lights.llc/opcodegen/internal/opdef"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"
)

func main() {
	g := defaultGlobalConfig()
	rootCommand := newRootCommand(g, configPaths())

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(g.Debug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

type generateOptions struct {
	input  string
	output string
	check  bool
	dump   bool
	stderr io.Writer
}

func newRootCommand(g *globalConfig, configFiles iter.Seq[string]) *cobra.Command {
	c := &cobra.Command{
		Use:                   "opcodegen [options] INPUT [OUTPUT]",
		Short:                 "generate the C opcode header",
		DisableFlagsInUseLine: true,
		Args:                  cobra.RangeArgs(1, 2),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	var extraConfigFiles pathListFlag
	c.PersistentFlags().Var(&extraConfigFiles, "config", "read configuration from `path` (may be repeated)")
	showDebug := c.PersistentFlags().Bool("debug", false, "show debugging output")
	opts := new(generateOptions)
	c.Flags().BoolVar(&opts.check, "check", false, "verify that OUTPUT is up to date instead of writing it")
	c.Flags().BoolVar(&opts.dump, "dump", false, "print the loaded definition and generated header model to stderr")

	c.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := g.mergeFiles(configFiles); err != nil {
			return err
		}
		for _, path := range extraConfigFiles {
			if err := g.mergeFile(path); err != nil {
				return err
			}
		}
		if err := g.mergeEnvironment(); err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			g.Debug = *showDebug
		}
		if err := g.validate(); err != nil {
			return err
		}
		initLogging(g.Debug)
		return nil
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.input = args[0]
		opts.output = g.Output
		if len(args) > 1 {
			opts.output = args[1]
		}
		opts.stderr = cmd.ErrOrStderr()
		return runGenerate(cmd.Context(), opts)
	}

	c.AddCommand(newVersionCommand())
	return c
}

func runGenerate(ctx context.Context, opts *generateOptions) error {
	def, err := opdef.Load(opts.input)
	if err != nil {
		return err
	}
	h, err := opcodegen.Generate(ctx, def, filepath.Base(opts.input))
	if opts.dump {
		// Dump whatever was built, even if generation failed.
		spew.Fdump(opts.stderr, def, h)
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data := h.Render()

	if opts.check {
		existing, err := os.ReadFile(opts.output)
		if errors.Is(err, os.ErrNotExist) {
			return generr.Errorf(generr.Stale, "%s does not exist", opts.output)
		}
		if err != nil {
			return generr.Wrap(generr.IOFailure, err)
		}
		if !bytes.Equal(existing, data) {
			return generr.Errorf(generr.Stale, "%s is out of date with %s", opts.output, opts.input)
		}
		log.Infof(ctx, "%s is up to date", opts.output)
		return nil
	}

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	log.Infof(ctx, "%s regenerated from %s", opts.output, opts.input)
	return nil
}

// writeOutput replaces the file at path with data.
// If writing fails, the partial file is removed.
func writeOutput(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return generr.Wrap(generr.IOFailure, err)
	}
	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return generr.Errorf(generr.IOFailure, "%w (also failed to clean up: %v)", writeErr, err)
		}
		return generr.Wrap(generr.IOFailure, writeErr)
	}
	return nil
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "opcodegen: ", log.StdFlags, nil),
		})
	})
}
