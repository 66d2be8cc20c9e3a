// Package order renders a deck's stacking order as a Graphviz diagram.
//
// # Usage
//
// Convert the items to DOT, then render to SVG:
//
//	dot := order.ToDOT(items, order.Options{Detailed: true})
//	svg, err := order.RenderSVG(dot)
//
// Items are drawn top to bottom, highest rank first, with an arrow from
// each item to the one directly beneath it. The top item is highlighted.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package order
