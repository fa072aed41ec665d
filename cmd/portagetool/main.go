package main

import (
	"io"
	"os"

	"github.com/obentoo/portagetool/internal/common/config"
	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/obentoo/portagetool/internal/common/output"
	"github.com/obentoo/portagetool/internal/common/runner"
	"github.com/obentoo/portagetool/internal/portage"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	dryRun     bool
	logFile    bool
	format     string
	configPath string
)

// newExecutor builds the command executor; tests replace it with a mock
var newExecutor = func(opts ...runner.Option) runner.Executor {
	return runner.NewRunner(opts...)
}

var rootCmd = &cobra.Command{
	Use:   "portagetool",
	Short: "Gentoo portage helper",
	Long: `Query and configure Gentoo portage from scripts.

Wraps emerge, equery, qlist, portageq and ebuild, and edits
package.accept_keywords, package.mask and package.use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logging based on flags
		logger.Default().SetLevel(logger.LevelInfo)
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
		if logFile {
			if err := logger.Default().EnableFileLogging(); err != nil {
				return err
			}
		}
		if noColor {
			output.NoColor()
		}
		_, err := output.ParseFormat(format)
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print commands and config changes instead of running them")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write a JSON log to $XDG_STATE_HOME/portagetool/logs")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", string(output.FormatText), "Output format (text, json, yaml, null)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/portagetool/config.yaml)")

	rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
}

// app is what a command needs to run: config, portage client and emitter
type app struct {
	cfg     *config.Config
	client  *portage.Client
	emitter *output.Emitter
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var out io.Writer = cmd.OutOrStdout()
	ropts := []runner.Option{runner.WithLogger(logger.Default())}
	popts := []portage.Option{portage.WithLogger(logger.Default())}
	if dryRun {
		ropts = append(ropts, runner.WithDryRun(out))
		popts = append(popts, portage.WithDryRun(out))
	}

	client, err := portage.NewClient(cfg, newExecutor(ropts...), popts...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		client:  client,
		emitter: output.NewEmitter(f, out),
	}, nil
}

// emit writes values and flushes the emitter
func (a *app) emit(reason string, values ...string) error {
	if err := a.emitter.EmitAll(reason, values); err != nil {
		return err
	}
	return a.emitter.Close()
}

// reportWrite logs the outcome of a config file write
func reportWrite(res *portage.WriteResult) {
	if res.DryRun {
		return
	}
	logger.Info("%s", output.FormatWrite(res.Line, res.Path, res.Written))
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("%v", err)
	}
	logger.Default().Close()
	if err != nil {
		os.Exit(1)
	}
}
