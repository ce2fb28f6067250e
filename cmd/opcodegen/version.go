// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// opcodegenVersion is the version string filled in by the linker (e.g. "1.2.3").
var opcodegenVersion string

func newVersionCommand() *cobra.Command {
	c := &cobra.Command{
		Use:                   "version",
		Short:                 "show version information",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd.OutOrStdout())
	}
	return c
}

func runVersion(w io.Writer) error {
	firstLine := "opcodegen"
	switch {
	case opcodegenVersion != "":
		firstLine += " version " + opcodegenVersion
	case buildVersion() != "":
		firstLine += " version " + buildVersion()
	default:
		firstLine += " (version unknown)"
	}
	_, err := fmt.Fprintf(w, "%s\nGo:           %s\nSystem:       %s/%s\n",
		firstLine, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}

// buildVersion returns the main module's version
// as recorded by "go install", if any.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}
