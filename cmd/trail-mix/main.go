package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/trail-mix/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "trail-mix",
		Short:   "A self-hosted trail map and travel log",
		Long:    "Trail Mix: find trails on a map, keep a travel log and share trail photos.",
		Version: build.Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("trail-mix %s (commit %s, branch %s)\n", build.Version, build.Commit, build.Branch))

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
