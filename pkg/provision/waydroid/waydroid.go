// Package waydroid optionally installs the Waydroid container layer for
// running Android on the desktop.
package waydroid

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeenv/mobiledev/pkg/provision/distro"
	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

// repoScript configures the Waydroid apt repository on Debian-family hosts.
const repoScript = "https://repo.waydro.id"

// Install installs Waydroid for the detected distribution. Already-installed
// hosts (waydroid on PATH) are skipped.
func Install(ctx context.Context, logger hclog.Logger, info distro.Info, r runner.Runner) error {
	if r.LookPath("waydroid") {
		logger.Info("✅ Waydroid already installed, skipping")
		return nil
	}

	switch info.Family() {
	case distro.FamilyDebian:
		return installDebian(ctx, logger, r)
	case distro.FamilyArch:
		return installArch(ctx, logger, r)
	default:
		return fmt.Errorf("%w: no Waydroid strategy for %s", proverr.ErrUnsupportedPlatform, info)
	}
}

func installDebian(ctx context.Context, logger hclog.Logger, r runner.Runner) error {
	logger.Info("🤖 Adding Waydroid repository")
	name, args := privileged("bash", "-c", "curl -fsSL "+repoScript+" | bash")
	if err := r.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: waydroid repository setup: %v", proverr.ErrInstallFailed, err)
	}

	logger.Info("🤖 Installing Waydroid")
	name, args = privileged("apt-get", "install", "-y", "waydroid")
	if err := r.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: waydroid: %v", proverr.ErrInstallFailed, err)
	}
	return nil
}

// installArch installs from the AUR. The AUR helper is an external
// dependency this tool does not install.
func installArch(ctx context.Context, logger hclog.Logger, r runner.Runner) error {
	if !r.LookPath("yay") {
		return fmt.Errorf("%w: yay is required to install waydroid from the AUR", proverr.ErrInstallFailed)
	}

	logger.Info("🤖 Installing Waydroid from the AUR")
	if err := r.Run(ctx, "yay", "-S", "--noconfirm", "waydroid"); err != nil {
		return fmt.Errorf("%w: waydroid: %v", proverr.ErrInstallFailed, err)
	}
	return nil
}

func privileged(name string, args ...string) (string, []string) {
	if os.Geteuid() == 0 {
		return name, args
	}
	return "sudo", append([]string{name}, args...)
}
