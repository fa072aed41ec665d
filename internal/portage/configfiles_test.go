package portage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordLine(t *testing.T) {
	tests := []struct {
		pkg  string
		want string
	}{
		{"dev-lang/zig-9999", "=dev-lang/zig-9999 **"},
		{"dev-lang/zig", "dev-lang/zig **"},
		{">=dev-lang/zig-0.13.0", ">=dev-lang/zig-0.13.0 **"},
		{"=dev-lang/zig-0.13.0", "=dev-lang/zig-0.13.0 **"},
		{"dev-lang/zig:0.13", "dev-lang/zig:0.13 **"},
		{" app-misc/hello-2.12.1-r1 ", "=app-misc/hello-2.12.1-r1 **"},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordLine(tt.pkg))
		})
	}
}

func TestKeywordLineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("versioned atoms get exactly one = operator", prop.ForAll(
		func(pkg string) bool {
			line := KeywordLine(pkg)
			return strings.HasPrefix(line, "="+pkg) && !strings.HasPrefix(line, "==") &&
				strings.HasSuffix(line, " **")
		},
		gen.RegexMatch(`^[a-z]{2,6}-[a-z]{2,6}/[a-z]{2,8}-[0-9]{1,2}\.[0-9]{1,2}$`),
	))

	properties.TestingRun(t)
}

func TestAcceptKeyword(t *testing.T) {
	c, _ := newTestClient(t, nil)
	path := filepath.Join(c.cfg.Portage.ConfigDir, AcceptKeywordsFile)

	res, err := c.AcceptKeyword("dev-lang/zig-9999")
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, path, res.Path)

	res, err = c.AcceptKeyword("dev-lang/zig-9999")
	require.NoError(t, err)
	assert.False(t, res.Written)

	assert.Equal(t, "=dev-lang/zig-9999 **\n", readFile(t, path))
}

func TestAcceptKeywordDirectory(t *testing.T) {
	c, _ := newTestClient(t, nil)
	dir := filepath.Join(c.cfg.Portage.ConfigDir, AcceptKeywordsFile)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zig"), []byte("=dev-lang/zig-9999 **\n"), 0644))

	res, err := c.AcceptKeyword("dev-lang/zig-9999")
	require.NoError(t, err)
	assert.False(t, res.Written, "line present in another file of the directory")

	res, err = c.AcceptKeyword("app-misc/hello")
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, filepath.Join(dir, "portagetool"), res.Path)
	assert.Equal(t, "app-misc/hello **\n", readFile(t, res.Path))
}

func TestMask(t *testing.T) {
	c, _ := newTestClient(t, nil)
	path := filepath.Join(c.cfg.Portage.ConfigDir, MaskFile)
	require.NoError(t, os.WriteFile(path, []byte(">=dev-lang/rust-2"), 0644))

	res, err := c.Mask(">=sys-devel/gcc-15")
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, ">=dev-lang/rust-2\n>=sys-devel/gcc-15\n", readFile(t, path))

	_, err = c.Mask("gcc")
	assert.Error(t, err)
}

func TestConfigWriteDryRun(t *testing.T) {
	var printed bytes.Buffer
	c, _ := newTestClient(t, nil, WithDryRun(&printed))
	path := filepath.Join(c.cfg.Portage.ConfigDir, MaskFile)

	res, err := c.Mask("dev-lang/rust")
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.False(t, res.Written)
	assert.NoFileExists(t, path)
	assert.Equal(t, "append \"dev-lang/rust\" to "+path+"\n", printed.String())
}

func TestConfigWriteDryRunReportsPresentLine(t *testing.T) {
	var printed bytes.Buffer
	c, _ := newTestClient(t, nil, WithDryRun(&printed))
	path := filepath.Join(c.cfg.Portage.ConfigDir, MaskFile)
	require.NoError(t, os.WriteFile(path, []byte("dev-lang/rust\n"), 0644))

	res, err := c.Mask("dev-lang/rust")
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, "present \"dev-lang/rust\" already in "+path+"\n", printed.String())
	assert.Equal(t, "dev-lang/rust\n", readFile(t, path))
}

func TestSetUseFlag(t *testing.T) {
	c, mock := newTestClient(t, outputs{
		"equery --quiet uses media-video/ffmpeg": "+x264\n-vaapi\n",
	})
	path := filepath.Join(c.cfg.Portage.ConfigDir, UseFile)

	res, err := c.SetUseFlag("media-video/ffmpeg", "vaapi")
	require.NoError(t, err)
	assert.True(t, res.Written)

	_, err = c.SetUseFlag("media-video/ffmpeg", "-x264")
	require.NoError(t, err)

	assert.Equal(t, "media-video/ffmpeg vaapi\nmedia-video/ffmpeg -x264\n", readFile(t, path))
	assert.Len(t, mock.Calls, 2)
}

func TestSetUseFlagUnknown(t *testing.T) {
	c, _ := newTestClient(t, outputs{
		"equery --quiet uses media-video/ffmpeg": "+x264\n",
	})

	_, err := c.SetUseFlag("media-video/ffmpeg", "gtk")
	assert.ErrorIs(t, err, ErrUnknownUseFlag)

	_, err = c.SetUseFlag("media-video/ffmpeg", "-")
	assert.ErrorIs(t, err, ErrUnknownUseFlag)

	assert.NoFileExists(t, filepath.Join(c.cfg.Portage.ConfigDir, UseFile))
}
