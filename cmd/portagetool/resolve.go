package main

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve PKG",
	Short: "Print the installed category/name-version of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	resolved, err := a.client.ResolvePackage(args[0])
	if err != nil {
		return err
	}
	return a.emit(args[0], resolved...)
}
