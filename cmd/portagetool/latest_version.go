package main

import (
	"github.com/spf13/cobra"
)

var latestGlob string

var latestVersionCmd = &cobra.Command{
	Use:   "latest-version",
	Short: "Print the newest version among files matching a glob",
	Long: `Glob the filesystem and print the newest version suffix (the text after
the last "-") of the matches. Defaults to latest.glob from the config,
which is /etc/init.d/postgresql-* unless changed.`,
	Example: `  portagetool latest-version
  portagetool latest-version --glob '/usr/lib/llvm/*'`,
	Args: cobra.NoArgs,
	RunE: runLatestVersion,
}

func init() {
	latestVersionCmd.Flags().StringVar(&latestGlob, "glob", "", "Glob pattern (default from config)")
	rootCmd.AddCommand(latestVersionCmd)
}

func runLatestVersion(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	pattern := latestGlob
	if pattern == "" {
		pattern = a.cfg.Latest.Glob
	}

	version, err := a.client.LatestVersion(pattern)
	if err != nil {
		return err
	}
	return a.emit(pattern, version)
}
