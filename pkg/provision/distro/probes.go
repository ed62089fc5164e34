package distro

import (
	"context"
	"os"
	"strings"

	"github.com/forgeenv/mobiledev/pkg/provision/runner"
)

// Detector probes release-metadata sources in fixed priority order:
// /etc/os-release, lsb_release, /etc/issue, then uname. The first source
// that yields a non-empty distribution name wins.
type Detector struct {
	ReleaseFile string // defaults to /etc/os-release
	IssueFile   string // defaults to /etc/issue
	Runner      runner.Runner
}

// NewDetector returns a Detector wired to the host.
func NewDetector(r runner.Runner) *Detector {
	return &Detector{
		ReleaseFile: "/etc/os-release",
		IssueFile:   "/etc/issue",
		Runner:      r,
	}
}

type probe func(ctx context.Context) (Info, bool)

func (d *Detector) probes() []probe {
	return []probe{
		d.probeOSRelease,
		d.probeLSBRelease,
		d.probeIssueFile,
		d.probeUname,
	}
}

func (d *Detector) probeOSRelease(ctx context.Context) (Info, bool) {
	data, err := os.ReadFile(d.ReleaseFile)
	if err != nil {
		return Info{}, false
	}
	info := parseOSRelease(string(data))
	return info, info.ID != "" || info.Name != ""
}

func (d *Detector) probeLSBRelease(ctx context.Context) (Info, bool) {
	if d.Runner == nil {
		return Info{}, false
	}
	name, err := d.Runner.Output(ctx, "lsb_release", "-si")
	if err != nil || name == "" {
		return Info{}, false
	}
	version, _ := d.Runner.Output(ctx, "lsb_release", "-sr")
	return Info{Name: name, Version: version}, true
}

func (d *Detector) probeIssueFile(ctx context.Context) (Info, bool) {
	data, err := os.ReadFile(d.IssueFile)
	if err != nil {
		return Info{}, false
	}
	// /etc/issue looks like "Ubuntu 22.04.3 LTS \n \l"; keep the leading
	// words up to the first escape sequence.
	line, _, _ := strings.Cut(string(data), "\\")
	line = strings.TrimSpace(line)
	if line == "" {
		return Info{}, false
	}
	return Info{Name: line}, true
}

func (d *Detector) probeUname(ctx context.Context) (Info, bool) {
	if d.Runner == nil {
		return Info{}, false
	}
	name, err := d.Runner.Output(ctx, "uname", "-s")
	if err != nil || name == "" {
		return Info{}, false
	}
	return Info{Name: name}, true
}

// parseOSRelease extracts ID, NAME and VERSION_ID from os-release content.
func parseOSRelease(content string) Info {
	var info Info
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			info.ID = value
		case "NAME":
			info.Name = value
		case "VERSION_ID":
			info.Version = value
		}
	}
	return info
}
