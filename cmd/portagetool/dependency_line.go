package main

import (
	"github.com/spf13/cobra"
)

var dependencyLineCmd = &cobra.Command{
	Use:   "dependency-line PKG",
	Short: "Print an ebuild dependency entry for an installed package",
	Long: `Print a tab-indented DEPEND entry for the installed version of PKG.
Packages built with Python targets get [${PYTHON_USEDEP}] appended.`,
	Args: cobra.ExactArgs(1),
	RunE: runDependencyLine,
}

func init() {
	rootCmd.AddCommand(dependencyLineCmd)
}

func runDependencyLine(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	line, err := a.client.DependencyLine(args[0])
	if err != nil {
		return err
	}
	return a.emit(args[0], line)
}
