package sink

import (
	"encoding/json"

	"github.com/matzehuels/truchet/pkg/placement"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	params  *placement.Params
	seed    uint64
	hasSeed bool
}

// WithJSONParams records the generation parameters in the output.
func WithJSONParams(p placement.Params) JSONOption {
	return func(r *jsonRenderer) { r.params = &p }
}

// WithJSONSeed records the random seed, enabling reproducible re-generation.
func WithJSONSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed = seed; r.hasSeed = true }
}

type jsonOutput struct {
	GridSize int                `json:"grid_size"`
	TileSize int                `json:"tile_size"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Shape    placement.Shape    `json:"shape,omitempty"`
	Rotation placement.Rotation `json:"rotation,omitempty"`
	Sigma    float64            `json:"sigma,omitempty"`
	Seed     *uint64            `json:"seed,omitempty"`
	Tiles    []jsonTile         `json:"tiles"`
	Cells    []jsonCell         `json:"cells"`
}

type jsonTile struct {
	FileName string `json:"file_name"`
	Busyness int    `json:"busyness"`
	Count    int    `json:"count"`
}

type jsonCell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	ID       string `json:"id"`
	Tile     string `json:"tile"`
	Busyness int    `json:"busyness"`
	Angle    int    `json:"angle"`
}

// RenderJSON exports the plan as a pretty-printed JSON document. Tile markup
// is not included; cells reference tiles by file name, and the tiles list
// summarizes how often each one was placed, in order of first use.
func RenderJSON(p placement.Plan, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		GridSize: p.GridSize,
		TileSize: p.TileSize,
		Width:    p.Extent(),
		Height:   p.Extent(),
		Tiles:    []jsonTile{},
		Cells:    make([]jsonCell, 0, len(p.Cells)),
	}
	if r.params != nil {
		out.Shape = r.params.Shape
		out.Rotation = r.params.Rotation
		out.Sigma = r.params.Sigma
	}
	if r.hasSeed {
		out.Seed = &r.seed
	}

	index := make(map[string]int)
	for _, c := range p.Cells {
		name := c.Tile.FileName
		i, ok := index[name]
		if !ok {
			i = len(out.Tiles)
			index[name] = i
			out.Tiles = append(out.Tiles, jsonTile{FileName: name, Busyness: c.Tile.Busyness})
		}
		out.Tiles[i].Count++

		out.Cells = append(out.Cells, jsonCell{
			Row:      c.Row,
			Col:      c.Col,
			X:        c.X(p.TileSize),
			Y:        c.Y(p.TileSize),
			ID:       SanitizeID(name),
			Tile:     name,
			Busyness: c.Tile.Busyness,
			Angle:    c.Angle,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
