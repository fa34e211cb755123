package pluginhost

import (
	"encoding/json"
	"fmt"
	"strings"

	"vsxregistry/internal/models"
	"vsxregistry/internal/utils"
)

const packageNLSPath = "extension/package.nls.json"

// Manifest is the subset of package.json the host relies on.
type Manifest struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Description string         `json:"description"`
	Version     string         `json:"version"`
	Publisher   string         `json:"publisher"`
	Engines     models.Engines `json:"engines"`
}

// ReadManifest reads extension/package.json from a .vsix archive and
// resolves %placeholders% from package.nls.json.
func ReadManifest(vsixPath string) (*Manifest, error) {
	raw, err := utils.ExtractFileFromVSIX(vsixPath, utils.PackageJSONPath)
	if err != nil {
		return nil, fmt.Errorf("package.json not found in .vsix file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	if m.Publisher == "" || m.Name == "" {
		return nil, fmt.Errorf("package.json misses publisher or name")
	}

	processLocalization(vsixPath, &m)
	return &m, nil
}

func processLocalization(vsixPath string, m *Manifest) {
	if !strings.Contains(m.DisplayName, "%") && !strings.Contains(m.Description, "%") {
		return
	}

	raw, err := utils.ExtractFileFromVSIX(vsixPath, packageNLSPath)
	if err != nil {
		return
	}

	var entries map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return
	}

	nls := make(map[string]string, len(entries))
	for key, value := range entries {
		switch v := value.(type) {
		case string:
			nls[key] = v
		case map[string]any:
			if msg, ok := v["message"].(string); ok {
				nls[key] = msg
			}
		}
	}

	if key := strings.Trim(m.DisplayName, "%"); nls[key] != "" {
		m.DisplayName = nls[key]
	}
	if key := strings.Trim(m.Description, "%"); nls[key] != "" {
		m.Description = nls[key]
	}
}
