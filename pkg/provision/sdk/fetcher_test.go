package sdk

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner records every invocation; all commands succeed.
type recordingRunner struct {
	calls  []string
	inputs []string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return nil
}

func (r *recordingRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func (r *recordingRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	r.inputs = append(r.inputs, input)
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return nil
}

func (r *recordingRunner) LookPath(name string) bool { return true }

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Name: "sdk_test", Level: hclog.Warn})
}

// toolsZip builds a minimal command-line tools archive in memory layout:
// cmdline-tools/bin/sdkmanager.
func toolsZip(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "commandlinetools-linux-11076708_latest.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("cmdline-tools/bin/sdkmanager")
	require.NoError(t, err)
	_, err = w.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestFetchNoOpWhenToolsPresent(t *testing.T) {
	installDir := t.TempDir()
	binDir := filepath.Join(installDir, "cmdline-tools", "latest", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "sdkmanager"), []byte("#!/bin/sh\n"), 0o755))

	networkCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		networkCalls++
	}))
	defer srv.Close()

	run := &recordingRunner{}
	f := &Fetcher{
		Resolver: &Resolver{Client: srv.Client(), PageURL: srv.URL},
		Client:   srv.Client(),
		Runner:   run,
		Logger:   testLogger(),
	}

	err := f.Fetch(context.Background(), Options{InstallDir: installDir})
	require.NoError(t, err)
	assert.Zero(t, networkCalls, "no network calls when tools already present")
	assert.Empty(t, run.calls, "no sdkmanager invocation when tools already present")
}

func TestFetchDownloadsExtractsAndBootstraps(t *testing.T) {
	archive := toolsZip(t, t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, archive)
	}))
	defer srv.Close()

	installDir := filepath.Join(t.TempDir(), "Sdk")
	run := &recordingRunner{}
	var cleanups []func()

	f := &Fetcher{
		Resolver:  &Resolver{PinnedURL: srv.URL + "/commandlinetools-linux-11076708_latest.zip"},
		Client:    srv.Client(),
		Runner:    run,
		Logger:    testLogger(),
		OnCleanup: func(fn func()) { cleanups = append(cleanups, fn) },
	}

	opts := Options{
		InstallDir: installDir,
		Platform:   "platforms;android-34",
		BuildTools: "build-tools;34.0.0",
	}
	require.NoError(t, f.Fetch(context.Background(), opts))

	// The download staged on the same filesystem as the SDK root
	staged, err := filepath.Glob(filepath.Join(installDir, ".mobiledev-sdk-*"))
	require.NoError(t, err)
	require.Len(t, staged, 1, "temp download dir must live inside the SDK root")

	// Tools land under cmdline-tools/latest
	assert.FileExists(t, filepath.Join(installDir, "cmdline-tools", "latest", "bin", "sdkmanager"))

	// License acceptance runs before package install, both via sdkmanager
	require.Len(t, run.calls, 2)
	assert.Contains(t, run.calls[0], "--licenses")
	assert.Contains(t, run.calls[1], "platform-tools")
	assert.Contains(t, run.calls[1], "platforms;android-34")
	assert.Contains(t, run.calls[1], "build-tools;34.0.0")

	// Licenses answered affirmatively on stdin
	require.Len(t, run.inputs, 1)
	assert.True(t, strings.HasPrefix(run.inputs[0], "y\n"))

	// Completion marker written
	marker, ok := ReadMarker(installDir)
	require.True(t, ok)
	assert.Equal(t, "platforms;android-34", marker.Platform)
	assert.False(t, marker.Timestamp.IsZero())

	// Temp dir removal registered with cleanup hooks
	require.Len(t, cleanups, 1)
	cleanups[0]()

	// A second run is a no-op
	before := len(run.calls)
	require.NoError(t, f.Fetch(context.Background(), opts))
	assert.Equal(t, before, len(run.calls))
}

// badLayoutZip builds an archive whose root directory is not cmdline-tools/,
// so installing it into place cannot succeed.
func badLayoutZip(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "commandlinetools-linux-11076708_latest.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("tools/bin/sdkmanager")
	require.NoError(t, err)
	_, err = w.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// A run that fails installing the tools into place must not poison later
// runs: the skip check looks for sdkmanager itself, so a retry fetches again
// instead of silently succeeding over a broken install.
func TestFetchRetriesAfterFailedInstall(t *testing.T) {
	archive := badLayoutZip(t, t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, archive)
	}))
	defer srv.Close()

	installDir := filepath.Join(t.TempDir(), "Sdk")
	run := &recordingRunner{}
	f := &Fetcher{
		Resolver: &Resolver{PinnedURL: srv.URL + "/commandlinetools-linux-11076708_latest.zip"},
		Client:   srv.Client(),
		Runner:   run,
		Logger:   testLogger(),
	}

	opts := Options{InstallDir: installDir}
	err := f.Fetch(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive layout")

	// No sdkmanager was installed, so the second run must retry (and fail
	// the same way), not no-op.
	err = f.Fetch(context.Background(), opts)
	require.Error(t, err, "second run must retry, not skip over a broken install")
	assert.Empty(t, run.calls, "sdkmanager is never invoked for a broken install")
}
