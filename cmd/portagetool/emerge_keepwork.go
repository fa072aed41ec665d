package main

import (
	"github.com/spf13/cobra"
)

var emergeKeepworkCmd = &cobra.Command{
	Use:   "emerge-keepwork PKG",
	Short: "Rebuild a package keeping its work directory",
	Long:  `Run emerge with FEATURES=keepwork so the build tree is kept after the merge.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEmergeKeepwork,
}

func init() {
	rootCmd.AddCommand(emergeKeepworkCmd)
}

func runEmergeKeepwork(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return a.client.EmergeKeepwork(args[0])
}
