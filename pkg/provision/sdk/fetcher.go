// Package sdk downloads and installs the Android command-line tools and the
// SDK sub-packages they manage.
package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

// Options configures an SDK installation.
type Options struct {
	InstallDir string // SDK root, e.g. ~/Android/Sdk
	Platform   string // e.g. "platforms;android-34"
	BuildTools string // e.g. "build-tools;34.0.0"
}

// Fetcher downloads, unpacks and bootstraps the command-line tools.
type Fetcher struct {
	Resolver *Resolver
	Client   *http.Client
	Runner   runner.Runner
	Logger   hclog.Logger

	// OnCleanup registers temp-path removal with the caller's cleanup
	// hooks. Optional.
	OnCleanup func(func())
}

// toolsSubdir is where sdkmanager expects to live under the SDK root.
const toolsSubdir = "cmdline-tools"

// Fetch installs the command-line tools and sub-packages into
// opts.InstallDir. It is a no-op when sdkmanager is already in place;
// presence is the only check, not SDK completeness.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) error {
	toolsDir := filepath.Join(opts.InstallDir, toolsSubdir)
	sdkmanager := filepath.Join(toolsDir, "latest", "bin", "sdkmanager")
	if _, err := os.Stat(sdkmanager); err == nil {
		f.Logger.Info("✅ Command-line tools already present, skipping", "dir", toolsDir)
		return nil
	}

	url, err := f.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	f.Logger.Info("🔗 Resolved command-line tools archive", "url", url)

	// The temp dir lives inside the SDK root so the final rename never
	// crosses filesystems (TMPDIR is tmpfs on several supported distros).
	if err := os.MkdirAll(opts.InstallDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	tmpDir, err := os.MkdirTemp(opts.InstallDir, ".mobiledev-sdk-*")
	if err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	if f.OnCleanup != nil {
		f.OnCleanup(func() { os.RemoveAll(tmpDir) })
	} else {
		defer os.RemoveAll(tmpDir)
	}

	archivePath := filepath.Join(tmpDir, filepath.Base(url))
	if err := f.download(ctx, url, archivePath); err != nil {
		return err
	}

	f.Logger.Info("📦 Extracting command-line tools", "archive", filepath.Base(archivePath))
	extractDir := filepath.Join(tmpDir, "extracted")
	if err := ExtractArchive(archivePath, extractDir); err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}

	// The archive unpacks to cmdline-tools/; sdkmanager expects
	// <sdk>/cmdline-tools/latest/bin/sdkmanager.
	extracted := filepath.Join(extractDir, toolsSubdir)
	if _, err := os.Stat(extracted); err != nil {
		return fmt.Errorf("%w: unexpected archive layout, no %s/ at archive root", proverr.ErrFetchFailed, toolsSubdir)
	}
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	if err := os.Rename(extracted, filepath.Join(toolsDir, "latest")); err != nil {
		return fmt.Errorf("%w: moving tools into place: %v", proverr.ErrFetchFailed, err)
	}

	if err := f.bootstrap(ctx, opts); err != nil {
		return err
	}

	if err := WriteMarker(opts.InstallDir, Marker{
		ToolsURL:   url,
		Platform:   opts.Platform,
		BuildTools: opts.BuildTools,
	}); err != nil {
		f.Logger.Warn("Could not write completion marker", "error", err)
	}

	return nil
}

// download streams the archive to disk.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	f.Logger.Info("⬇️  Downloading command-line tools", "url", url)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", proverr.ErrFetchFailed, url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", proverr.ErrFetchFailed, err)
	}
	return nil
}

// bootstrap accepts all licenses and installs the sub-packages.
func (f *Fetcher) bootstrap(ctx context.Context, opts Options) error {
	sdkmanager := filepath.Join(opts.InstallDir, toolsSubdir, "latest", "bin", "sdkmanager")
	sdkRoot := "--sdk_root=" + opts.InstallDir

	// sdkmanager prompts per license; feed enough affirmative answers.
	yes := strings.Repeat("y\n", 64)

	f.Logger.Info("📜 Accepting SDK licenses")
	if err := f.Runner.RunInput(ctx, yes, sdkmanager, sdkRoot, "--licenses"); err != nil {
		return fmt.Errorf("%w: accepting licenses: %v", proverr.ErrFetchFailed, err)
	}

	f.Logger.Info("📲 Installing SDK packages",
		"platform", opts.Platform,
		"build_tools", opts.BuildTools,
	)
	if err := f.Runner.Run(ctx, sdkmanager, sdkRoot, "platform-tools", opts.Platform, opts.BuildTools); err != nil {
		return fmt.Errorf("%w: installing SDK packages: %v", proverr.ErrFetchFailed, err)
	}
	return nil
}
