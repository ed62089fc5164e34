package pkgmgr

import (
	"context"
	"strings"

	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

type aptManager struct {
	run runner.Runner
}

func (m *aptManager) Name() string { return "apt-get" }

func (m *aptManager) IsInstalled(ctx context.Context, pkg string) bool {
	out, err := m.run.Output(ctx, "dpkg-query", "-W", "-f=${Status}", pkg)
	return err == nil && strings.Contains(out, "install ok installed")
}

func (m *aptManager) Install(ctx context.Context, pkgs ...string) error {
	name, args := sudoPrefix("apt-get", append([]string{"install", "-y"}, pkgs...)...)
	return m.run.Run(ctx, name, args...)
}

type dnfManager struct {
	run runner.Runner
}

func (m *dnfManager) Name() string { return "dnf" }

func (m *dnfManager) IsInstalled(ctx context.Context, pkg string) bool {
	_, err := m.run.Output(ctx, "rpm", "-q", pkg)
	return err == nil
}

func (m *dnfManager) Install(ctx context.Context, pkgs ...string) error {
	name, args := sudoPrefix("dnf", append([]string{"install", "-y"}, pkgs...)...)
	return m.run.Run(ctx, name, args...)
}

type pacmanManager struct {
	run runner.Runner
}

func (m *pacmanManager) Name() string { return "pacman" }

func (m *pacmanManager) IsInstalled(ctx context.Context, pkg string) bool {
	_, err := m.run.Output(ctx, "pacman", "-Qi", pkg)
	return err == nil
}

func (m *pacmanManager) Install(ctx context.Context, pkgs ...string) error {
	name, args := sudoPrefix("pacman", append([]string{"-S", "--noconfirm", "--needed"}, pkgs...)...)
	return m.run.Run(ctx, name, args...)
}

type zypperManager struct {
	run runner.Runner
}

func (m *zypperManager) Name() string { return "zypper" }

func (m *zypperManager) IsInstalled(ctx context.Context, pkg string) bool {
	_, err := m.run.Output(ctx, "rpm", "-q", pkg)
	return err == nil
}

func (m *zypperManager) Install(ctx context.Context, pkgs ...string) error {
	name, args := sudoPrefix("zypper", append([]string{"--non-interactive", "install"}, pkgs...)...)
	return m.run.Run(ctx, name, args...)
}
