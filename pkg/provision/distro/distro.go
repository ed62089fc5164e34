// Package distro identifies the host Linux distribution and maps it to a
// package-manager family used to dispatch installation strategies.
package distro

import (
	"context"
	"fmt"
	"strings"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

// Info describes a detected distribution.
type Info struct {
	ID      string // machine identifier, e.g. "arch", "ubuntu"
	Name    string // human name, e.g. "Arch Linux", "Ubuntu"
	Version string // release version, may be empty for rolling distros
}

// Family groups distributions by package-management strategy.
type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyFedora  Family = "fedora"
	FamilyArch    Family = "arch"
	FamilySuse    Family = "suse"
	FamilyUnknown Family = "unknown"
)

// idFamilies maps os-release IDs to families.
var idFamilies = map[string]Family{
	"ubuntu":    FamilyDebian,
	"debian":    FamilyDebian,
	"linuxmint": FamilyDebian,
	"pop":       FamilyDebian,
	"fedora":    FamilyFedora,
	"rhel":      FamilyFedora,
	"centos":    FamilyFedora,
	"rocky":     FamilyFedora,
	"almalinux": FamilyFedora,
	"arch":      FamilyArch,
	"manjaro":   FamilyArch,
	"endeavour": FamilyArch,
	"opensuse":  FamilySuse,
}

// nameFamilies is the fallback for sources that only yield a pretty name.
var nameFamilies = map[string]Family{
	"ubuntu":   FamilyDebian,
	"debian":   FamilyDebian,
	"mint":     FamilyDebian,
	"fedora":   FamilyFedora,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"opensuse": FamilySuse,
	"suse":     FamilySuse,
}

// Family returns the package-manager family for the distribution, or
// FamilyUnknown when neither the ID nor the name matches a dispatch key.
func (i Info) Family() Family {
	if f, ok := idFamilies[strings.ToLower(i.ID)]; ok {
		return f
	}
	// opensuse ships IDs like "opensuse-tumbleweed"
	if strings.HasPrefix(strings.ToLower(i.ID), "opensuse") {
		return FamilySuse
	}
	lower := strings.ToLower(i.Name)
	for key, f := range nameFamilies {
		if strings.Contains(lower, key) {
			return f
		}
	}
	return FamilyUnknown
}

func (i Info) String() string {
	if i.Version == "" {
		return i.Name
	}
	return fmt.Sprintf("%s %s", i.Name, i.Version)
}

// Detect probes the host for distribution information using the default
// probe order and fails when no source yields a supported distribution.
func (d *Detector) Detect(ctx context.Context) (Info, error) {
	for _, probe := range d.probes() {
		info, ok := probe(ctx)
		if !ok || (info.Name == "" && info.ID == "") {
			continue
		}
		if info.Family() == FamilyUnknown {
			return info, fmt.Errorf("%w: %s", proverr.ErrUnsupportedPlatform, info)
		}
		return info, nil
	}
	return Info{}, fmt.Errorf("%w: no release information found", proverr.ErrUnsupportedPlatform)
}
