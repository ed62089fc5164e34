package sdk

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// markerFile records a completed provisioning run inside the SDK root.
const markerFile = ".provision.complete"

// Marker is the JSON completion marker written after a successful install.
type Marker struct {
	Timestamp  time.Time `json:"timestamp"`
	ToolsURL   string    `json:"tools_url"`
	Platform   string    `json:"platform"`
	BuildTools string    `json:"build_tools"`
}

// WriteMarker records a completed install in the SDK root.
func WriteMarker(sdkRoot string, m Marker) error {
	m.Timestamp = time.Now().UTC()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(sdkRoot, markerFile), data, 0o644)
}

// ReadMarker loads the completion marker, if any.
func ReadMarker(sdkRoot string) (Marker, bool) {
	data, err := os.ReadFile(filepath.Join(sdkRoot, markerFile))
	if err != nil {
		return Marker{}, false
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return Marker{}, false
	}
	return m, true
}
