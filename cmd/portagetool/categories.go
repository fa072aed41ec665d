package main

import (
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the configured repository",
	Long: `List the categories from <repo>/profiles/categories, plus the extra
categories configured under categories.extra.`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	categories, err := a.client.Categories()
	if err != nil {
		return err
	}
	return a.emit(a.cfg.Portage.Repo, categories...)
}
