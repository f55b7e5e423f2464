package pipeline

import (
	"fmt"

	"github.com/matzehuels/truchet/pkg/placement"
	"github.com/matzehuels/truchet/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(plan placement.Plan, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(plan, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(plan, sink.WithJSONParams(opts.Params), sink.WithJSONSeed(opts.Seed))
		case FormatPDF:
			data, err = sink.RenderPDF(plan, sink.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	if opts.Stroke != "" {
		out = append(out, sink.WithStroke(opts.Stroke, opts.StrokeWidth))
	}
	return out
}
