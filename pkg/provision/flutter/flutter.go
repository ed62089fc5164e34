// Package flutter installs the Flutter SDK by cloning the stable channel.
package flutter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

// RepoURL is the upstream Flutter repository.
const RepoURL = "https://github.com/flutter/flutter.git"

// Installer clones the Flutter SDK.
type Installer struct {
	Runner runner.Runner
	Logger hclog.Logger
}

// Install clones the stable channel into dir. A directory that already
// contains bin/flutter is left untouched.
func (i *Installer) Install(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "bin", "flutter")); err == nil {
		i.Logger.Info("✅ Flutter SDK already present, skipping", "dir", dir)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dir), err)
	}

	i.Logger.Info("🐦 Cloning Flutter SDK", "channel", "stable", "dir", dir)
	if err := i.Runner.Run(ctx, "git", "clone", "--depth", "1", "-b", "stable", RepoURL, dir); err != nil {
		return fmt.Errorf("cloning flutter: %w", err)
	}
	return nil
}

// Doctor runs flutter doctor as the final verification step.
func (i *Installer) Doctor(ctx context.Context, dir string) error {
	return i.Runner.Run(ctx, filepath.Join(dir, "bin", "flutter"), "doctor")
}
