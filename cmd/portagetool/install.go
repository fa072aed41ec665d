package main

import (
	"errors"

	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/obentoo/portagetool/internal/common/output"
	"github.com/obentoo/portagetool/internal/portage"
	"github.com/spf13/cobra"
)

var (
	errSetWithPackages       = errors.New("--set cannot be combined with package arguments")
	errUpgradeOnlyNeedsForce = errors.New("--upgrade-only requires --force-use")
)

var (
	installForce       bool
	installUpgradeOnly bool
	installSet         string
)

var installCmd = &cobra.Command{
	Use:   "install [PKG...]",
	Short: "Install packages with emerge",
	Long: `Install packages with emerge. A pretend run is made first.

With --force-use, emerge is allowed to write the keyword and USE changes
the packages need (--autounmask-write) with CONFIG_PROTECT disabled.
With --set, the packages of a named set from the sets file are installed.`,
	Example: `  portagetool install app-misc/hello
  portagetool install --force-use --upgrade-only dev-lang/zig
  portagetool install --set zig`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force-use", false, "Let emerge write required keyword and USE changes")
	installCmd.Flags().BoolVar(&installUpgradeOnly, "upgrade-only", false, "With --force-use, only upgrade (-u)")
	installCmd.Flags().StringVar(&installSet, "set", "", "Install the named package set")
	installCmd.RegisterFlagCompletionFunc("set", completeSetNames)
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if installSet != "" {
		if len(args) > 0 {
			return errSetWithPackages
		}
		set, err := a.loadSet(installSet)
		if err != nil {
			return err
		}
		// Command line flags add to what the set asks for
		set.Force = set.Force || installForce
		set.UpgradeOnly = set.UpgradeOnly || installUpgradeOnly
		if set.UpgradeOnly && !set.Force {
			return errUpgradeOnlyNeedsForce
		}
		logger.Info("Installing set %s", output.FormatPackage(installSet))
		return a.client.InstallSet(set)
	}

	if len(args) == 0 {
		return portage.ErrNoPackages
	}
	if installUpgradeOnly && !installForce {
		return errUpgradeOnlyNeedsForce
	}
	if installForce {
		return a.client.InstallForce(args, installUpgradeOnly)
	}
	return a.client.Install(args)
}

// loadSet reads the named set from the configured sets file
func (a *app) loadSet(name string) (portage.Set, error) {
	path, err := a.cfg.GetSetsPath()
	if err != nil {
		return portage.Set{}, err
	}
	sets, err := portage.LoadSets(path)
	if err != nil {
		return portage.Set{}, err
	}
	return sets.Get(name)
}

func completeSetNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	path, err := cfg.GetSetsPath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	sets, err := portage.LoadSets(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return sets.Names(), cobra.ShellCompDirectiveNoFileComp
}
