package tile

import (
	"path/filepath"
	"strings"
)

// Busyness bounds and the value assigned to freshly uploaded tiles.
const (
	MinBusyness     = 0
	MaxBusyness     = 10
	DefaultBusyness = 5
)

// DefaultSize is the default tile edge length in abstract SVG units.
const DefaultSize = 24

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// RawTile is a single uploaded SVG fragment.
type RawTile struct {
	ID       string `json:"id,omitempty"`
	FileName string `json:"file_name"`
	Content  string `json:"content"`
	Busyness int    `json:"busyness"`
}

// NormalizedTile is a RawTile together with its canonical SVG.
// An empty Canonical means the source could not be normalized.
type NormalizedTile struct {
	RawTile
	Canonical string `json:"canonical"`
}

// Eligible reports whether the tile can be placed in a composite.
func (t NormalizedTile) Eligible() bool {
	return strings.TrimSpace(t.Canonical) != ""
}

// New creates a RawTile with the default busyness.
func New(fileName, content string) RawTile {
	return RawTile{FileName: fileName, Content: content, Busyness: DefaultBusyness}
}

// ClampBusyness limits b to [MinBusyness, MaxBusyness].
func ClampBusyness(b int) int {
	return max(MinBusyness, min(b, MaxBusyness))
}

// ValidBusyness reports whether b lies in [MinBusyness, MaxBusyness].
func ValidBusyness(b int) bool {
	return b >= MinBusyness && b <= MaxBusyness
}

// DisplayName returns the file name without its extension.
// Names that are only an extension (".svg") are returned unchanged.
func (t RawTile) DisplayName() string {
	ext := filepath.Ext(t.FileName)
	if name := strings.TrimSuffix(t.FileName, ext); name != "" {
		return name
	}
	return t.FileName
}
