// Command emerge-keep rebuilds a package with FEATURES=keepwork.
// It is the standalone form of "portagetool emerge-keepwork".
package main

import (
	"os"

	"github.com/obentoo/portagetool/internal/common/config"
	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/obentoo/portagetool/internal/common/runner"
	"github.com/obentoo/portagetool/internal/common/version"
	"github.com/obentoo/portagetool/internal/portage"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dryRun     bool
	configPath string
)

// newExecutor builds the command executor; tests replace it with a mock
var newExecutor = func(opts ...runner.Option) runner.Executor {
	return runner.NewRunner(opts...)
}

var rootCmd = &cobra.Command{
	Use:           "emerge-keep PKG",
	Short:         "Rebuild a package keeping its work directory",
	Version:       version.Short(),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the emerge command instead of running it")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/portagetool/config.yaml)")
	rootCmd.SetVersionTemplate(version.InfoFor("emerge-keep") + "\n")
}

func run(cmd *cobra.Command, args []string) error {
	logger.Default().SetLevel(logger.LevelInfo)
	logger.SetVerbose(verbose)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	opts := []runner.Option{runner.WithLogger(logger.Default())}
	if dryRun {
		opts = append(opts, runner.WithDryRun(cmd.OutOrStdout()))
	}

	client, err := portage.NewClient(cfg, newExecutor(opts...))
	if err != nil {
		return err
	}
	return client.EmergeKeepwork(args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
