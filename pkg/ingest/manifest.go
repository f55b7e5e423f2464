package ingest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/truchet/pkg/errors"
)

// ManifestName is the per-directory busyness manifest file.
const ManifestName = "busyness.yaml"

// Manifest maps tile file names to busyness values.
type Manifest map[string]int

// LoadManifest reads dir/busyness.yaml. A missing manifest is not an error
// and yields nil.
func LoadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest YAML and checks every value is a valid
// busyness.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", ManifestName)
	}
	for name, b := range m {
		if err := errors.ValidateBusyness(b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: %s", ManifestName, name)
		}
	}
	return m, nil
}

// Marshal encodes the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(map[string]int(m))
}
