package preview

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"math"
	"slices"

	"github.com/matzehuels/stackdeck/pkg/fan"
)

// Default card geometry in pixels.
const (
	DefaultItemWidth  = 200
	DefaultItemHeight = 280
	padding           = 20
)

var palette = []string{"#fdf6e3", "#e0f2f1", "#fce4ec", "#ede7f6", "#fff3e0", "#e3f2fd"}

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	width, height float64
	labels        map[string]string
	highlight     string
}

// WithItemSize sets the card size in pixels.
func WithItemSize(w, h float64) Option {
	return func(r *renderer) { r.width, r.height = w, h }
}

// WithLabels overrides the text drawn on cards. Items without a label show
// their ID.
func WithLabels(labels map[string]string) Option {
	return func(r *renderer) { r.labels = labels }
}

// WithHighlight outlines one card, typically the top item.
func WithHighlight(id string) Option { return func(r *renderer) { r.highlight = id } }

// RenderSVG draws placements as a standalone SVG document.
func RenderSVG(placements []fan.Placement, opts ...Option) []byte {
	r := renderer{width: DefaultItemWidth, height: DefaultItemHeight}
	for _, opt := range opts {
		opt(&r)
	}

	cards := slices.Clone(placements)
	slices.SortStableFunc(cards, func(a, b fan.Placement) int { return cmp.Compare(b.Position, a.Position) })

	minX, minY, maxX, maxY := r.bounds(cards)
	w := maxX - minX + 2*padding
	h := maxY - minY + 2*padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX-padding, minY-padding, w, h, w, h)
	for i, p := range cards {
		r.renderCard(&buf, p, palette[i%len(palette)])
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) renderCard(buf *bytes.Buffer, p fan.Placement, fill string) {
	stroke, strokeWidth := "#555", 1.5
	if p.ID == r.highlight {
		stroke, strokeWidth = "#0097a7", 3
	}
	label := p.ID
	if l, ok := r.labels[p.ID]; ok {
		label = l
	}

	fmt.Fprintf(buf, `  <g id="card-%s" transform="%s">`+"\n", html.EscapeString(p.ID), r.transform(p))
	fmt.Fprintf(buf, `    <rect width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		r.width, r.height, fill, stroke, strokeWidth)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="20">%s</text>`+"\n",
		r.width/2, r.height/2, html.EscapeString(label))
	buf.WriteString("  </g>\n")
}

// transform converts a placement into an SVG transform. CSS applies
// translate then rotate about the origin, which SVG expresses the same way.
func (r renderer) transform(p fan.Placement) string {
	if !p.Rotate {
		return fmt.Sprintf("translate(%.2f %.2f)", p.Translation, p.Step)
	}
	ox, oy := r.origin(p)
	return fmt.Sprintf("translate(%.2f 0) rotate(%.2f %.2f %.2f)", p.Translation, p.Step, ox, oy)
}

func (r renderer) origin(p fan.Placement) (float64, float64) {
	if !p.HasOrigin {
		return r.width / 2, r.height / 2
	}
	return p.OriginX / 100 * r.width, p.OriginY / 100 * r.height
}

// bounds returns the box covering every transformed card corner.
func (r renderer) bounds(cards []fan.Placement) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range cards {
		for _, c := range [][2]float64{{0, 0}, {r.width, 0}, {0, r.height}, {r.width, r.height}} {
			x, y := r.place(p, c[0], c[1])
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	if len(cards) == 0 {
		return 0, 0, r.width, r.height
	}
	return minX, minY, maxX, maxY
}

// place maps a point of the card box to canvas coordinates.
func (r renderer) place(p fan.Placement, x, y float64) (float64, float64) {
	if !p.Rotate {
		return x + p.Translation, y + p.Step
	}
	ox, oy := r.origin(p)
	rad := p.Step * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := x-ox, y-oy
	return ox + dx*cos - dy*sin + p.Translation, oy + dx*sin + dy*cos
}
