package main

import (
	"github.com/spf13/cobra"
)

var setUseFlagCmd = &cobra.Command{
	Use:   "set-use-flag PKG FLAG",
	Short: "Set a USE flag for a package in package.use",
	Long: `Append "PKG FLAG" to package.use after checking that FLAG is a USE flag
of the installed package. Prefix FLAG with "-" to disable it.`,
	Example: `  portagetool set-use-flag media-video/ffmpeg vaapi
  portagetool set-use-flag media-video/ffmpeg -- -x264`,
	Args: cobra.ExactArgs(2),
	RunE: runSetUseFlag,
}

func init() {
	rootCmd.AddCommand(setUseFlagCmd)
}

func runSetUseFlag(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	res, err := a.client.SetUseFlag(args[0], args[1])
	if err != nil {
		return err
	}
	reportWrite(res)
	return nil
}
