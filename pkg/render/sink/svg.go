package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/truchet/pkg/placement"
	"github.com/matzehuels/truchet/pkg/tile"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	stroke      string
	strokeWidth float64
}

// WithBackground paints a full-size rect of the given color behind the cells.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithStroke sets stroke and stroke-width on the root so fill-stripped tiles
// are drawn as outlines. A non-positive width leaves stroke-width unset.
func WithStroke(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.stroke = color; r.strokeWidth = width }
}

// RenderSVG composes the plan into one SVG document. A plan without cells
// produces a root element with no children.
func RenderSVG(p placement.Plan, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w := p.Extent()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="%s" width="%d" height="%d" viewBox="0 0 %d %d"`, tile.Namespace, w, w, w, w)
	if r.stroke != "" {
		fmt.Fprintf(&buf, ` stroke="%s"`, attr(r.stroke))
		if r.strokeWidth > 0 {
			fmt.Fprintf(&buf, ` stroke-width="%s"`, strconv.FormatFloat(r.strokeWidth, 'f', -1, 64))
		}
	}
	buf.WriteString(">")

	if r.background != "" {
		fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="%s"/>`, w, w, attr(r.background))
	}

	half := strconv.FormatFloat(float64(p.TileSize)/2, 'f', -1, 64)
	for _, c := range p.Cells {
		fmt.Fprintf(&buf, `<g id="%s" transform="translate(%d, %d) rotate(%d, %s, %s)">%s</g>`,
			SanitizeID(c.Tile.FileName), c.X(p.TileSize), c.Y(p.TileSize), c.Angle, half, half, c.Tile.Canonical)
	}

	buf.WriteString("</svg>")
	return buf.Bytes()
}

// Generate places tiles according to params and renders the composite.
func Generate(tiles []tile.NormalizedTile, params placement.Params, rng placement.Rand, opts ...SVGOption) []byte {
	return RenderSVG(placement.Place(tiles, params, rng), opts...)
}

var (
	idUnsafe   = regexp.MustCompile(`[^a-zA-Z0-9\-_:.]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// SanitizeID turns a file name into an SVG id: every character outside
// [A-Za-z0-9-_:.] is removed and whitespace runs become underscores.
func SanitizeID(name string) string {
	s := idUnsafe.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(s, "_")
	return strings.TrimSpace(s)
}

func attr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
