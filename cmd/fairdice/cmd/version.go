package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/commit"
)

var (
	// Version is set with -ldflags at build time.
	Version = "dev"
	// Commit is set with -ldflags at build time.
	Commit = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fairdice %s (%s)\n", Version, Commit)
			fmt.Fprintf(out, "digests: %v\n", commit.Algorithms())
			fmt.Fprintf(out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
