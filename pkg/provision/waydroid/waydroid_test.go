package waydroid

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeenv/mobiledev/pkg/provision/distro"
	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

type fakeRunner struct {
	onPath map[string]bool
	calls  []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func (f *fakeRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) LookPath(name string) bool { return f.onPath[name] }

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Name: "waydroid_test", Level: hclog.Warn})
}

func TestInstallSkipsWhenPresent(t *testing.T) {
	run := &fakeRunner{onPath: map[string]bool{"waydroid": true}}

	err := Install(context.Background(), testLogger(), distro.Info{ID: "ubuntu"}, run)
	require.NoError(t, err)
	assert.Empty(t, run.calls)
}

func TestInstallDebianFamily(t *testing.T) {
	run := &fakeRunner{}

	err := Install(context.Background(), testLogger(), distro.Info{ID: "ubuntu"}, run)
	require.NoError(t, err)

	require.Len(t, run.calls, 2)
	assert.Contains(t, run.calls[0], "repo.waydro.id")
	assert.Contains(t, run.calls[1], "waydroid")
}

func TestInstallArchRequiresAURHelper(t *testing.T) {
	run := &fakeRunner{}

	err := Install(context.Background(), testLogger(), distro.Info{ID: "arch"}, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, proverr.ErrInstallFailed)
	assert.Empty(t, run.calls, "no invocation when yay is missing")
}

func TestInstallArchWithAURHelper(t *testing.T) {
	run := &fakeRunner{onPath: map[string]bool{"yay": true}}

	err := Install(context.Background(), testLogger(), distro.Info{ID: "arch"}, run)
	require.NoError(t, err)

	require.Len(t, run.calls, 1)
	assert.Contains(t, run.calls[0], "yay -S --noconfirm waydroid")
}

func TestInstallUnsupportedFamily(t *testing.T) {
	run := &fakeRunner{}

	err := Install(context.Background(), testLogger(), distro.Info{ID: "fedora"}, run)
	assert.ErrorIs(t, err, proverr.ErrUnsupportedPlatform)
	assert.Empty(t, run.calls)
}
