package envfile

import (
	"fmt"
	"os"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

// DefaultJavaCandidates lists known JVM install locations in resolution
// order, covering the package names installed per distribution family.
func DefaultJavaCandidates() []string {
	return []string{
		"/usr/lib/jvm/java-17-openjdk-amd64", // debian/ubuntu
		"/usr/lib/jvm/java-17-openjdk",       // fedora, arch
		"/usr/lib/jvm/java-17-openjdk-17",    // opensuse
		"/usr/lib/jvm/default-java",
		"/usr/lib/jvm/default",
	}
}

// ResolveJavaHome returns the first candidate directory that exists, or
// ErrJavaNotFound when none do.
func ResolveJavaHome(candidates []string) (string, error) {
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: checked %d locations", proverr.ErrJavaNotFound, len(candidates))
}
