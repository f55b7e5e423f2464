package placement

import (
	"fmt"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/tile"
)

// Shape selects the spatial distribution of tiles over the grid.
type Shape string

// Supported shapes.
const (
	ShapeRandom      Shape = "random"
	ShapeCircle      Shape = "circle"
	ShapeGradient    Shape = "gradient"
	ShapeExponential Shape = "exponential"
)

// Rotation selects how each placed tile is rotated.
type Rotation string

// Supported rotation rules.
const (
	RotationDefault Rotation = "default"
	RotationRandom  Rotation = "random"
	RotationPyramid Rotation = "pyramid"
)

// Parameter bounds and defaults.
const (
	MinGridSize     = 8
	MaxGridSize     = 56
	DefaultGridSize = 8
	DefaultSigma    = 0.15
	DefaultTileSize = tile.DefaultSize
	DefaultShape    = ShapeRandom
	DefaultRotation = RotationDefault
)

// Shapes lists every supported shape in display order.
var Shapes = []Shape{ShapeRandom, ShapeCircle, ShapeGradient, ShapeExponential}

// Rotations lists every supported rotation rule in display order.
var Rotations = []Rotation{RotationDefault, RotationRandom, RotationPyramid}

// Params configures a single generation.
type Params struct {
	GridSize int      `json:"grid_size" toml:"grid_size"`
	Shape    Shape    `json:"shape" toml:"shape"`
	Rotation Rotation `json:"rotation" toml:"rotation"`
	Sigma    float64  `json:"sigma" toml:"sigma"`
	TileSize int      `json:"tile_size" toml:"tile_size"`
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		GridSize: DefaultGridSize,
		Shape:    DefaultShape,
		Rotation: DefaultRotation,
		Sigma:    DefaultSigma,
		TileSize: DefaultTileSize,
	}
}

// SetDefaults fills zero-valued fields with their defaults.
func (p *Params) SetDefaults() {
	if p.GridSize == 0 {
		p.GridSize = DefaultGridSize
	}
	if p.Shape == "" {
		p.Shape = DefaultShape
	}
	if p.Rotation == "" {
		p.Rotation = DefaultRotation
	}
	if p.Sigma == 0 {
		p.Sigma = DefaultSigma
	}
	if p.TileSize == 0 {
		p.TileSize = DefaultTileSize
	}
}

// Validate checks every field against its allowed range.
func (p Params) Validate() error {
	if p.GridSize < MinGridSize || p.GridSize > MaxGridSize {
		return errors.New(errors.ErrCodeInvalidGridSize,
			"grid size %d out of range [%d, %d]", p.GridSize, MinGridSize, MaxGridSize)
	}
	if err := ValidateShape(string(p.Shape)); err != nil {
		return err
	}
	if err := ValidateRotation(string(p.Rotation)); err != nil {
		return err
	}
	if !(p.Sigma > 0 && p.Sigma <= 1) {
		return errors.New(errors.ErrCodeInvalidSigma, "sigma %v out of range (0, 1]", p.Sigma)
	}
	if p.TileSize <= 0 {
		return errors.New(errors.ErrCodeInvalidTileSize, "tile size must be positive, got %d", p.TileSize)
	}
	return nil
}

// ValidateShape checks that s names a supported shape.
func ValidateShape(s string) error {
	for _, v := range Shapes {
		if string(v) == s {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidShape,
		"invalid shape: %q (must be one of: random, circle, gradient, exponential)", s)
}

// ValidateRotation checks that s names a supported rotation rule.
func ValidateRotation(s string) error {
	for _, v := range Rotations {
		if string(v) == s {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidRotation,
		"invalid rotation: %q (must be one of: default, random, pyramid)", s)
}

// String renders the parameters for logs.
func (p Params) String() string {
	return fmt.Sprintf("%dx%d %s/%s sigma=%.2f tile=%d",
		p.GridSize, p.GridSize, p.Shape, p.Rotation, p.Sigma, p.TileSize)
}
