package main

import (
	"github.com/obentoo/portagetool/internal/common/output"
	"github.com/spf13/cobra"
)

var useFlagStates bool

var useFlagsCmd = &cobra.Command{
	Use:   "use-flags PKG",
	Short: "List the USE flags of an installed package",
	Example: `  portagetool use-flags dev-lang/python
  portagetool use-flags --states media-video/ffmpeg`,
	Args: cobra.ExactArgs(1),
	RunE: runUseFlags,
}

func init() {
	useFlagsCmd.Flags().BoolVarP(&useFlagStates, "states", "s", false, "Prefix flags with + or - for their enabled state")
	rootCmd.AddCommand(useFlagsCmd)
}

func runUseFlags(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	pkg := args[0]

	flags, err := a.client.UseFlagStates(pkg)
	if err != nil {
		return err
	}

	// Colored markers only for text on a terminal; piped output stays plain
	colored := a.emitter.Format == output.FormatText && output.IsTerminal(cmd.OutOrStdout())

	values := make([]string, len(flags))
	for i, f := range flags {
		switch {
		case !useFlagStates:
			values[i] = f.Name
		case colored:
			values[i] = output.FormatFlag(f.Name, f.Enabled)
		case f.Enabled:
			values[i] = "+" + f.Name
		default:
			values[i] = "-" + f.Name
		}
	}
	return a.emit(pkg, values...)
}
