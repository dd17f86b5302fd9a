package main

import (
	"fmt"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := color.New(color.FgYellow, color.Bold)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name.Sprint("coerce"), Version)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "  go      %s\n", info.GoVersion)
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					fmt.Fprintf(cmd.OutOrStdout(), "  commit  %s\n", s.Value)
				}
			}
		}
		return nil
	},
}
