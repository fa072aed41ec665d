package portage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obentoo/portagetool/internal/common/config"
	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/obentoo/portagetool/internal/common/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outputs maps a rendered command line to its stdout
type outputs map[string]string

func newTestClient(t *testing.T, out outputs, opts ...Option) (*Client, *runner.MockRunner) {
	t.Helper()

	cfg := config.Default()
	cfg.Portage.ConfigDir = t.TempDir()
	cfg.Portage.TmpDir = "/var/tmp/portage"

	mock := runner.NewMockRunner()
	mock.OutputFunc = func(cmd runner.Command) (string, error) {
		if s, ok := out[runner.String(cmd)]; ok {
			return s, nil
		}
		return "", nil
	}

	opts = append([]Option{WithLogger(logger.New(new(bytes.Buffer)))}, opts...)
	c, err := NewClient(cfg, mock, opts...)
	require.NoError(t, err)
	return c, mock
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewClientValidatesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Portage.Repo = ""

	_, err := NewClient(cfg, runner.NewMockRunner())
	assert.ErrorIs(t, err, config.ErrRepoNotSet)
}

func TestPrivileged(t *testing.T) {
	c, _ := newTestClient(t, nil)
	cmd := runner.Command{Name: EbuildCmd, Args: []string{"foo.ebuild", "clean"}}

	t.Run("sudo", func(t *testing.T) {
		got := c.privileged(cmd)
		assert.Equal(t, "sudo ebuild foo.ebuild clean", runner.String(got))
	})

	t.Run("wrapper with arguments", func(t *testing.T) {
		c.cfg.Exec.Sudo = "doas -u root"
		got := c.privileged(cmd)
		assert.Equal(t, "doas -u root ebuild foo.ebuild clean", runner.String(got))
	})

	t.Run("disabled", func(t *testing.T) {
		c.cfg.Exec.Sudo = ""
		assert.Equal(t, cmd, c.privileged(cmd))
	})
}

func TestCategories(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "profiles"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(repo, "profiles", "categories"),
		[]byte("app-admin\n\napp-editors\ndev-lang\n"),
		0644,
	))

	c, mock := newTestClient(t, outputs{
		"portageq get_repo_path / gentoo": repo + "\n",
	})
	c.cfg.Categories.Extra = []string{"dev-zig", "dev-lang"}

	cats, err := c.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"app-admin", "app-editors", "dev-lang", "dev-zig"}, cats)
	assert.Equal(t, []string{"portageq get_repo_path / gentoo"}, mock.CommandLines())
}

func TestCategoriesUnknownRepo(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.Categories()
	assert.ErrorIs(t, err, ErrRepoNotFound)
}

func TestCategoriesCommandError(t *testing.T) {
	c, mock := newTestClient(t, nil)
	mock.OutputFunc = func(runner.Command) (string, error) {
		return "", runner.ErrNotFound
	}

	_, err := c.Categories()
	assert.ErrorIs(t, err, runner.ErrNotFound)
}

func TestLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"postgresql-15", "postgresql-16", "postgresql-9.6"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0755))
	}
	c, _ := newTestClient(t, nil)

	pattern := filepath.Join(dir, "postgresql-*")
	latest, err := c.LatestVersion(pattern)
	require.NoError(t, err)
	assert.Equal(t, "16", latest)

	versions, err := c.InstalledVersions(pattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"16", "15", "9.6"}, versions)
}

func TestLatestVersionUsesConfiguredGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zig-0.13.0"), nil, 0644))
	c, _ := newTestClient(t, nil)
	c.cfg.Latest.Glob = filepath.Join(dir, "zig-*")

	latest, err := c.LatestVersion("")
	require.NoError(t, err)
	assert.Equal(t, "0.13.0", latest)
}

func TestLatestVersionNoMatches(t *testing.T) {
	c, _ := newTestClient(t, nil)
	pattern := filepath.Join(t.TempDir(), "postgresql-*")

	_, err := c.LatestVersion(pattern)
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Contains(t, err.Error(), pattern)
}

func TestResolvePackage(t *testing.T) {
	c, mock := newTestClient(t, outputs{
		"equery --quiet list dev-lang/python": "dev-lang/python-3.11.10\ndev-lang/python-3.12.7\n",
	})

	resolved, err := c.ResolvePackage("dev-lang/python")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-lang/python-3.11.10", "dev-lang/python-3.12.7"}, resolved)

	newest, err := c.ResolveNewest("dev-lang/python")
	require.NoError(t, err)
	assert.Equal(t, "dev-lang/python-3.12.7", newest.CPV())
	assert.Len(t, mock.Calls, 2)
}

func TestResolvePackageErrors(t *testing.T) {
	c, mock := newTestClient(t, nil)

	_, err := c.ResolvePackage("dev-lang/nothing")
	assert.ErrorIs(t, err, ErrNotInstalled)

	_, err = c.ResolvePackage("python")
	assert.Error(t, err)
	// Invalid arguments never reach equery
	assert.Len(t, mock.Calls, 1)
}

const equeryUses = `[ Legend : U - final flag setting for installation]
[        : I - package is installed with flag     ]
+bluetooth
-debug
+python_targets_python3_12
-python_targets_python3_13
`

func TestParseUseFlags(t *testing.T) {
	flags := ParseUseFlags(equeryUses)
	assert.Equal(t, []UseFlag{
		{Name: "bluetooth", Enabled: true},
		{Name: "debug", Enabled: false},
		{Name: "python_targets_python3_12", Enabled: true},
		{Name: "python_targets_python3_13", Enabled: false},
	}, flags)

	assert.Empty(t, ParseUseFlags(""))
	assert.Empty(t, ParseUseFlags("+\n-\n"))
}

func TestUseFlags(t *testing.T) {
	c, _ := newTestClient(t, outputs{
		"equery --quiet uses dev-lang/python": equeryUses,
	})

	flags, err := c.UseFlags("dev-lang/python")
	require.NoError(t, err)
	assert.Equal(t, []string{"bluetooth", "debug", "python_targets_python3_12", "python_targets_python3_13"}, flags)
}

func TestHasPythonTargets(t *testing.T) {
	c, _ := newTestClient(t, outputs{
		"equery --quiet uses dev-python/requests": "+python_targets_python3_12\n",
		"equery --quiet uses app-editors/vim":     "-python_targets_python3_12\n+X\n",
	})

	ok, err := c.HasPythonTargets("dev-python/requests")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasPythonTargets("app-editors/vim")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDependencyLine(t *testing.T) {
	c, mock := newTestClient(t, outputs{
		"equery --quiet list dev-python/requests":        "dev-python/requests-2.32.3\n",
		"equery --quiet uses dev-python/requests-2.32.3": "+python_targets_python3_12\n",
		"equery --quiet list sys-libs/zlib":              "sys-libs/zlib-1.3.1-r1\n",
	})

	line, err := c.DependencyLine("dev-python/requests")
	require.NoError(t, err)
	assert.Equal(t, "\tdev-python/requests-2.32.3[${PYTHON_USEDEP}]", line)

	line, err = c.DependencyLine("sys-libs/zlib")
	require.NoError(t, err)
	assert.Equal(t, "\tsys-libs/zlib-1.3.1-r1", line)

	assert.Equal(t, []string{
		"equery --quiet list dev-python/requests",
		"equery --quiet uses dev-python/requests-2.32.3",
		"equery --quiet list sys-libs/zlib",
		"equery --quiet uses sys-libs/zlib-1.3.1-r1",
	}, mock.CommandLines())
}

func TestDependencyLineNotInstalled(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.DependencyLine("dev-python/missing")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestFiles(t *testing.T) {
	c, _ := newTestClient(t, outputs{
		"qlist --exact app-misc/hello": "/usr/bin/hello\n/usr/share/man/man1/hello.1.bz2\n",
	})

	files, err := c.Files("app-misc/hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/hello", "/usr/share/man/man1/hello.1.bz2"}, files)
}

func TestFilesCommandError(t *testing.T) {
	c, mock := newTestClient(t, nil)
	want := errors.New("qlist exploded")
	mock.OutputFunc = func(runner.Command) (string, error) { return "", want }

	_, err := c.Files("app-misc/hello")
	assert.ErrorIs(t, err, want)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("  a \n\n\tb\n"))
	assert.Equal(t, []string{"one"}, splitLines(strings.Repeat("\n", 3)+"one"))
}
