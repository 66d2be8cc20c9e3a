// Package preview draws a fanned deck as a static SVG.
//
// Each [fan.Placement] becomes one card: a rounded rectangle of the item
// size, rotated about its transform origin and shifted by its translation,
// exactly as a browser would place it at the end of a fan animation. Cards
// are painted bottom-most first so the top item is drawn last.
//
//	placements, _ := fan.Compute(slots, settings, nil)
//	svg := preview.RenderSVG(placements, preview.WithItemSize(200, 280))
//
// [fan.Placement]: github.com/matzehuels/stackdeck/pkg/fan#Placement
package preview
