package cache

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// TileKey keys a normalized tile by its source content hash and size.
	TileKey(contentHash string, tileSize int) string

	// ArtifactKey keys a rendered document by the hash of its tile set and
	// the generation options.
	ArtifactKey(tilesHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything besides the tile set that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	GridSize    int     `json:"grid_size"`
	Shape       string  `json:"shape"`
	Rotation    string  `json:"rotation"`
	Sigma       float64 `json:"sigma"`
	TileSize    int     `json:"tile_size"`
	Seed        uint64  `json:"seed"`
	Background  string  `json:"background,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TileKey generates a key for a normalized tile.
func (DefaultKeyer) TileKey(contentHash string, tileSize int) string {
	return kindKey("tile", contentHash, tileSize)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(tilesHash string, opts ArtifactKeyOpts) string {
	return kindKey("artifact", tilesHash, opts)
}

var _ Keyer = DefaultKeyer{}
