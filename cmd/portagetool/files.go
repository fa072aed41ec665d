package main

import (
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files PKG",
	Short: "List the files installed by a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	files, err := a.client.Files(args[0])
	if err != nil {
		return err
	}
	return a.emit(args[0], files...)
}
