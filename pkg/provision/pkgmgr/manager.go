// Package pkgmgr dispatches package installation to the distribution's
// native package manager.
package pkgmgr

import (
	"context"
	"fmt"
	"os"

	"github.com/forgeenv/mobiledev/pkg/provision/distro"
	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

// Manager is a distro-specific package-installation strategy.
type Manager interface {
	// Name returns the package manager binary name, e.g. "pacman".
	Name() string

	// IsInstalled queries the package database for the package.
	IsInstalled(ctx context.Context, pkg string) bool

	// Install installs packages with auto-confirm.
	Install(ctx context.Context, pkgs ...string) error
}

// ForDistro returns the Manager for a distribution's family, or
// ErrUnsupportedPlatform when no strategy exists for it.
func ForDistro(info distro.Info, r runner.Runner) (Manager, error) {
	switch info.Family() {
	case distro.FamilyDebian:
		return &aptManager{run: r}, nil
	case distro.FamilyFedora:
		return &dnfManager{run: r}, nil
	case distro.FamilyArch:
		return &pacmanManager{run: r}, nil
	case distro.FamilySuse:
		return &zypperManager{run: r}, nil
	default:
		return nil, fmt.Errorf("%w: %s", proverr.ErrUnsupportedPlatform, info)
	}
}

// sudoPrefix prepends sudo for non-root invocations.
func sudoPrefix(name string, args ...string) (string, []string) {
	if os.Geteuid() == 0 {
		return name, args
	}
	return "sudo", append([]string{name}, args...)
}
