package pkgmgr

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeenv/mobiledev/pkg/provision/distro"
	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

// Spec names a package and its distro-specific spellings. A family with no
// entry falls back to Name.
type Spec struct {
	Name      string
	PerFamily map[distro.Family]string
}

// NameFor returns the package name to use for a family.
func (s Spec) NameFor(f distro.Family) string {
	if name, ok := s.PerFamily[f]; ok {
		return name
	}
	return s.Name
}

// DefaultPackages is the toolchain needed for Flutter and Android builds:
// fetch/unpack tools, a C++ toolchain for the Linux desktop target, and a JDK.
func DefaultPackages() []Spec {
	return []Spec{
		{Name: "git"},
		{Name: "curl"},
		{Name: "unzip"},
		{Name: "zip"},
		{Name: "xz", PerFamily: map[distro.Family]string{
			distro.FamilyDebian: "xz-utils",
			distro.FamilySuse:   "xz",
		}},
		{Name: "clang"},
		{Name: "cmake"},
		{Name: "ninja", PerFamily: map[distro.Family]string{
			distro.FamilyDebian: "ninja-build",
			distro.FamilyFedora: "ninja-build",
			distro.FamilySuse:   "ninja",
		}},
		{Name: "pkg-config", PerFamily: map[distro.Family]string{
			distro.FamilyArch: "pkgconf",
		}},
		{Name: "gtk3", PerFamily: map[distro.Family]string{
			distro.FamilyDebian: "libgtk-3-dev",
			distro.FamilyFedora: "gtk3-devel",
			distro.FamilySuse:   "gtk3-devel",
		}},
		{Name: "openjdk-17", PerFamily: map[distro.Family]string{
			distro.FamilyDebian: "openjdk-17-jdk",
			distro.FamilyFedora: "java-17-openjdk-devel",
			distro.FamilyArch:   "jdk17-openjdk",
			distro.FamilySuse:   "java-17-openjdk-devel",
		}},
	}
}

// InstallMissing installs every package not already present. Packages
// reported present by the package database are skipped and logged. The first
// install failure aborts the run.
func InstallMissing(ctx context.Context, logger hclog.Logger, mgr Manager, family distro.Family, specs []Spec) error {
	for _, spec := range specs {
		name := spec.NameFor(family)

		if mgr.IsInstalled(ctx, name) {
			logger.Info("✅ Package already installed, skipping", "package", name)
			continue
		}

		logger.Info("📦 Installing package", "package", name, "manager", mgr.Name())
		if err := mgr.Install(ctx, name); err != nil {
			return fmt.Errorf("%w: %s: %v", proverr.ErrInstallFailed, name, err)
		}
	}
	return nil
}
