package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"

	proverr "github.com/forgeenv/mobiledev/pkg/provision/errors"
)

// DownloadPage is the vendor page scraped for the current command-line
// tools archive name when no pinned URL or version is configured.
const DownloadPage = "https://developer.android.com/studio"

// repositoryURL is where archive names resolve to.
const repositoryURL = "https://dl.google.com/android/repository/"

var toolsPattern = regexp.MustCompile(`commandlinetools-linux-(\d+)_latest\.zip`)

// Resolver resolves the download URL for the command-line tools archive.
// An explicit PinnedURL wins; a PinnedVersion builds the canonical repository
// URL; otherwise the vendor download page is scraped as a fallback.
type Resolver struct {
	Client        *http.Client
	PageURL       string
	PinnedURL     string
	PinnedVersion string
}

// Resolve returns the archive URL, or ErrResolutionFailed when the vendor
// page yields no matching archive name.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.PinnedURL != "" {
		return r.PinnedURL, nil
	}
	if r.PinnedVersion != "" {
		return fmt.Sprintf("%scommandlinetools-linux-%s_latest.zip", repositoryURL, r.PinnedVersion), nil
	}

	pageURL := r.PageURL
	if pageURL == "" {
		pageURL = DownloadPage
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", proverr.ErrResolutionFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", proverr.ErrResolutionFailed, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", proverr.ErrResolutionFailed, pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", proverr.ErrResolutionFailed, pageURL, err)
	}

	match := toolsPattern.Find(body)
	if match == nil {
		return "", fmt.Errorf("%w: no commandlinetools archive on %s", proverr.ErrResolutionFailed, pageURL)
	}

	return repositoryURL + string(match), nil
}
