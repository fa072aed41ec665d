package main

import (
	"github.com/spf13/cobra"
)

var maskCmd = &cobra.Command{
	Use:     "mask PKG",
	Short:   "Mask a package in package.mask",
	Example: `  portagetool mask '>=sys-devel/gcc-15'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runMask,
}

func init() {
	rootCmd.AddCommand(maskCmd)
}

func runMask(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	res, err := a.client.Mask(args[0])
	if err != nil {
		return err
	}
	reportWrite(res)
	return nil
}
