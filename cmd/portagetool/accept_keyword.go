package main

import (
	"github.com/spf13/cobra"
)

var acceptKeywordCmd = &cobra.Command{
	Use:   "accept-keyword PKG",
	Short: "Accept all keywords for a package",
	Long: `Append "PKG **" to package.accept_keywords. A versioned atom without an
operator is written as "=PKG **".`,
	Example: `  portagetool accept-keyword dev-lang/zig-9999`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAcceptKeyword,
}

func init() {
	rootCmd.AddCommand(acceptKeywordCmd)
}

func runAcceptKeyword(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	res, err := a.client.AcceptKeyword(args[0])
	if err != nil {
		return err
	}
	reportWrite(res)
	return nil
}
