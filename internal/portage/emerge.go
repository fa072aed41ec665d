package portage

import (
	"fmt"
	"strings"

	"github.com/obentoo/portagetool/internal/common/output"
	"github.com/obentoo/portagetool/internal/common/runner"
)

var (
	installArgs = []string{"--with-bdeps=y", "-v", "--tree", "--usepkg=n", "-u", "--ask", "n", "--noreplace"}
	forceArgs   = []string{"-v", "--with-bdeps=y", "--tree", "--usepkg=n", "--ask", "n", "--autounmask", "--autounmask-write"}
	keepArgs    = []string{"--verbose", "--tree", "--usepkg=n"}
)

const (
	pretendFlag      = "-p"
	configProtectAll = "CONFIG_PROTECT=-*"
	featuresKeepwork = "FEATURES=keepwork"
)

func checkPackages(pkgs []string) error {
	if len(pkgs) == 0 {
		return ErrNoPackages
	}
	for _, pkg := range pkgs {
		if err := checkPackage(pkg); err != nil {
			return err
		}
	}
	return nil
}

// packageList joins pkgs for log messages
func packageList(pkgs []string) string {
	names := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		names[i] = output.FormatPackage(pkg)
	}
	return strings.Join(names, " ")
}

func emergeArgs(base, extra, pkgs []string) []string {
	args := make([]string, 0, len(base)+len(extra)+len(pkgs))
	args = append(args, base...)
	args = append(args, extra...)
	return append(args, pkgs...)
}

// Install pretends the install of pkgs, then installs them
func (c *Client) Install(pkgs []string) error {
	if err := checkPackages(pkgs); err != nil {
		return err
	}

	c.log.Info("Installing %s", packageList(pkgs))
	pretend := runner.Command{Name: Emerge, Args: emergeArgs(installArgs, []string{pretendFlag}, pkgs)}
	if err := c.exec.Run(pretend); err != nil {
		return fmt.Errorf("pretend failed: %w", err)
	}

	return c.exec.Run(runner.Command{Name: Emerge, Args: emergeArgs(installArgs, nil, pkgs)})
}

// InstallForce installs pkgs letting emerge write the keyword and USE changes
// they need, with config protection disabled. The pretend run is allowed to
// exit 1 since that is how emerge reports pending autounmask changes.
func (c *Client) InstallForce(pkgs []string, upgradeOnly bool) error {
	if err := checkPackages(pkgs); err != nil {
		return err
	}

	base := append([]string{}, forceArgs...)
	if upgradeOnly {
		base = append(base, "-u")
	}
	env := []string{configProtectAll}

	c.log.Info("Installing %s with autounmask", packageList(pkgs))
	pretend := runner.Command{
		Name:    Emerge,
		Args:    emergeArgs(base, []string{pretendFlag}, pkgs),
		Env:     env,
		OkCodes: []int{1},
	}
	if err := c.exec.Run(pretend); err != nil {
		return fmt.Errorf("pretend failed: %w", err)
	}

	return c.exec.Run(runner.Command{
		Name: Emerge,
		Args: emergeArgs(base, []string{"--quiet", "--autounmask-continue"}, pkgs),
		Env:  env,
	})
}

// EmergeKeepwork rebuilds pkg keeping its work directory
func (c *Client) EmergeKeepwork(pkg string) error {
	if err := checkPackage(pkg); err != nil {
		return err
	}

	c.log.Info("Rebuilding %s with FEATURES=keepwork", packageList([]string{pkg}))
	return c.exec.Run(runner.Command{
		Name: Emerge,
		Args: emergeArgs(keepArgs, nil, []string{pkg}),
		Env:  []string{featuresKeepwork},
	})
}
