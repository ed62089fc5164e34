package distro

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

type fakeRunner struct {
	outputs map[string]string
	lastCtx context.Context
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error { return nil }

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	f.lastCtx = ctx
	key := name
	for _, a := range args {
		key += " " + a
	}
	out, ok := f.outputs[key]
	if !ok {
		return "", errors.New("command not found")
	}
	return out, nil
}

func (f *fakeRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	return nil
}

func (f *fakeRunner) LookPath(name string) bool { return false }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseOSRelease(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected Info
	}{
		{
			name: "arch",
			content: `NAME="Arch Linux"
PRETTY_NAME="Arch Linux"
ID=arch
BUILD_ID=rolling`,
			expected: Info{ID: "arch", Name: "Arch Linux"},
		},
		{
			name: "ubuntu",
			content: `NAME="Ubuntu"
VERSION_ID="22.04"
ID=ubuntu
ID_LIKE=debian`,
			expected: Info{ID: "ubuntu", Name: "Ubuntu", Version: "22.04"},
		},
		{
			name:     "empty",
			content:  "",
			expected: Info{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseOSRelease(tc.content))
		})
	}
}

func TestFamilyDispatchKeys(t *testing.T) {
	testCases := []struct {
		info     Info
		expected Family
	}{
		{Info{ID: "arch", Name: "Arch Linux"}, FamilyArch},
		{Info{ID: "ubuntu", Name: "Ubuntu"}, FamilyDebian},
		{Info{ID: "debian", Name: "Debian GNU/Linux"}, FamilyDebian},
		{Info{ID: "fedora", Name: "Fedora Linux"}, FamilyFedora},
		{Info{ID: "opensuse-tumbleweed", Name: "openSUSE Tumbleweed"}, FamilySuse},
		{Info{ID: "manjaro", Name: "Manjaro Linux"}, FamilyArch},
		// Name-only sources (lsb_release, /etc/issue) still dispatch.
		{Info{Name: "Ubuntu 22.04.3 LTS"}, FamilyDebian},
		{Info{Name: "Arch Linux"}, FamilyArch},
		{Info{ID: "gentoo", Name: "Gentoo"}, FamilyUnknown},
		{Info{Name: "Linux"}, FamilyUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.info.Name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.info.Family())
		})
	}
}

func TestDetectPrefersOSRelease(t *testing.T) {
	dir := t.TempDir()
	d := &Detector{
		ReleaseFile: writeFile(t, dir, "os-release", "ID=arch\nNAME=\"Arch Linux\"\n"),
		IssueFile:   writeFile(t, dir, "issue", "Ubuntu 22.04 LTS \\n \\l\n"),
		Runner:      &fakeRunner{outputs: map[string]string{"lsb_release -si": "Fedora"}},
	}

	info, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "arch", info.ID)
	assert.Equal(t, FamilyArch, info.Family())
}

func TestDetectFallsBackToLSBRelease(t *testing.T) {
	dir := t.TempDir()
	d := &Detector{
		ReleaseFile: filepath.Join(dir, "missing"),
		IssueFile:   filepath.Join(dir, "also-missing"),
		Runner: &fakeRunner{outputs: map[string]string{
			"lsb_release -si": "Ubuntu",
			"lsb_release -sr": "22.04",
		}},
	}

	info, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu", info.Name)
	assert.Equal(t, "22.04", info.Version)
	assert.Equal(t, FamilyDebian, info.Family())
}

func TestDetectFallsBackToIssueFile(t *testing.T) {
	dir := t.TempDir()
	d := &Detector{
		ReleaseFile: filepath.Join(dir, "missing"),
		IssueFile:   writeFile(t, dir, "issue", "Debian GNU/Linux 12 \\n \\l\n"),
		Runner:      &fakeRunner{outputs: map[string]string{}},
	}

	info, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Debian GNU/Linux 12", info.Name)
	assert.Equal(t, FamilyDebian, info.Family())
}

func TestDetectUnsupportedDistro(t *testing.T) {
	dir := t.TempDir()
	d := &Detector{
		ReleaseFile: writeFile(t, dir, "os-release", "ID=gentoo\nNAME=\"Gentoo\"\n"),
		IssueFile:   filepath.Join(dir, "missing"),
		Runner:      &fakeRunner{outputs: map[string]string{}},
	}

	_, err := d.Detect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, proverr.ErrUnsupportedPlatform)
}

// Cancellation must reach the probe commands, so Detect passes its context
// through to the runner rather than using a background one.
func TestDetectThreadsContextToProbes(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRunner{outputs: map[string]string{
		"lsb_release -si": "Ubuntu",
		"lsb_release -sr": "22.04",
	}}
	d := &Detector{
		ReleaseFile: filepath.Join(dir, "missing"),
		IssueFile:   filepath.Join(dir, "also-missing"),
		Runner:      run,
	}

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "detect")

	_, err := d.Detect(ctx)
	require.NoError(t, err)
	require.NotNil(t, run.lastCtx)
	assert.Equal(t, "detect", run.lastCtx.Value(ctxKey{}))
}

func TestDetectNoSources(t *testing.T) {
	dir := t.TempDir()
	d := &Detector{
		ReleaseFile: filepath.Join(dir, "missing"),
		IssueFile:   filepath.Join(dir, "also-missing"),
		Runner:      &fakeRunner{outputs: map[string]string{}},
	}

	_, err := d.Detect(context.Background())
	assert.ErrorIs(t, err, proverr.ErrUnsupportedPlatform)
}
