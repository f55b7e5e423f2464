// Package render provides output conversion shared by the composite sinks.
//
// # Format Conversion
//
// [ToPDF] converts any SVG document to PDF using the external rsvg-convert
// tool (from librsvg):
//
//	svg := sink.RenderSVG(plan)
//	pdf, err := render.ToPDF(svg)
//
// The [sink] subpackage builds the SVG and JSON documents themselves.
//
// [sink]: github.com/matzehuels/truchet/pkg/render/sink
package render
