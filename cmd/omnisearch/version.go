package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at release time via -ldflags "-X main.version=... -X main.revision=...".
var (
	version  = ""
	revision = ""
)

// buildVersion resolves the release version, preferring ldflags over the
// module info the Go toolchain embeds.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// buildRevision resolves the VCS revision, shortened to 12 characters.
func buildRevision() string {
	rev := revision
	if rev == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
				}
			}
		}
	}
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the omnisearch release version, VCS revision, and Go runtime version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), buildVersion())
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "omnisearch %s (revision %s, %s)\n",
				buildVersion(), buildRevision(), runtime.Version())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the bare version only")

	return cmd
}
