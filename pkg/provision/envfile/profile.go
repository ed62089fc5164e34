// Package envfile persists tool environment variables into the user's
// shell profile.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

// ToolPaths are the install locations exported to the shell profile.
type ToolPaths struct {
	FlutterHome string
	AndroidHome string
	JavaHome    string
}

// Sentinel lines bracketing the managed export block. Their presence makes
// repeated runs a no-op instead of accumulating duplicate blocks.
const (
	beginMarker = "# >>> mobiledev-setup >>>"
	endMarker   = "# <<< mobiledev-setup <<<"
)

// DetectProfile picks the shell profile file from $SHELL, defaulting to
// ~/.profile for unrecognized shells.
func DetectProfile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}

	shell := filepath.Base(os.Getenv("SHELL"))
	switch shell {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return filepath.Join(home, ".profile")
	}
}

// Write appends the export block for paths to profileFile. When the sentinel
// marker is already present the file is left untouched and Write reports
// false. The profile is only ever appended to, never rewritten.
func Write(paths ToolPaths, profileFile string) (bool, error) {
	existing, err := os.ReadFile(profileFile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: %v", proverr.ErrProfileWrite, err)
	}

	if strings.Contains(string(existing), beginMarker) {
		return false, nil
	}

	f, err := os.OpenFile(profileFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("%w: %v", proverr.ErrProfileWrite, err)
	}

	if _, err := f.WriteString(exportBlock(paths)); err != nil {
		f.Close()
		return false, fmt.Errorf("%w: %v", proverr.ErrProfileWrite, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("%w: %v", proverr.ErrProfileWrite, err)
	}
	return true, nil
}

func exportBlock(paths ToolPaths) string {
	var b strings.Builder
	b.WriteString("\n" + beginMarker + "\n")
	fmt.Fprintf(&b, "export FLUTTER_HOME=%q\n", paths.FlutterHome)
	fmt.Fprintf(&b, "export ANDROID_HOME=%q\n", paths.AndroidHome)
	fmt.Fprintf(&b, "export JAVA_HOME=%q\n", paths.JavaHome)
	b.WriteString(`export PATH="$PATH:$FLUTTER_HOME/bin"` + "\n")
	b.WriteString(`export PATH="$PATH:$ANDROID_HOME/cmdline-tools/latest/bin"` + "\n")
	b.WriteString(`export PATH="$PATH:$ANDROID_HOME/platform-tools"` + "\n")
	b.WriteString(`export PATH="$PATH:$JAVA_HOME/bin"` + "\n")
	b.WriteString(endMarker + "\n")
	return b.String()
}
