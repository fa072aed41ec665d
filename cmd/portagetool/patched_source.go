package main

import (
	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/spf13/cobra"
)

var patchedSourceCmd = &cobra.Command{
	Use:   "patched-source PKG",
	Short: "Unpack, patch and configure the source of an installed package",
	Long: `Run the ebuild clean, unpack, prepare and configure phases for the
installed version of PKG, make the build directory readable, and print
the path of its work directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runPatchedSource,
}

func init() {
	rootCmd.AddCommand(patchedSourceCmd)
}

func runPatchedSource(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	src, err := a.client.PatchedSource(args[0])
	if err != nil {
		return err
	}
	logger.Debug("ebuild %s", src.Ebuild)
	return a.emit(args[0], src.WorkDir)
}
