// Package render draws decks for offline inspection.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [preview]: an SVG picture of a fanned deck, computed from
//     [fan.Placement] values without any animation.
//   - [order]: the stacking order as a Graphviz diagram, one node per item
//     from top to bottom.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers produce SVG
// first.
//
//	svg := preview.RenderSVG(placements)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [preview]: github.com/matzehuels/stackdeck/pkg/render/preview
// [order]: github.com/matzehuels/stackdeck/pkg/render/order
// [fan.Placement]: github.com/matzehuels/stackdeck/pkg/fan#Placement
package render
