package order

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackdeck/pkg/render"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

// Options configures stacking-order rendering.
type Options struct {
	// Detailed adds the rank and the saved fan decoration to each label.
	// When false, only the item ID is shown.
	Detailed bool
}

// ToDOT converts items to Graphviz DOT. Items may be passed in any order;
// they are laid out by descending rank.
func ToDOT(items []stack.Item, opts Options) string {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b stack.Item) int { return cmp.Compare(b.Rank, a.Rank) })

	var buf bytes.Buffer
	buf.WriteString("digraph deck {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7, color=grey40];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("\n")

	for i, it := range sorted {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(it, opts.Detailed))}
		if i == 0 {
			attrs = append(attrs, "fillcolor=\"#c6f6ff\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(attrs, ", "))
	}

	if len(sorted) > 1 {
		buf.WriteString("\n")
	}
	for i := 1; i < len(sorted); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", sorted[i-1].ID, sorted[i].ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it stack.Item, detailed bool) string {
	if !detailed {
		return it.ID
	}
	parts := []string{
		it.ID,
		fmt.Sprintf("rank: %d", it.Rank),
	}
	if it.Translation != 0 || it.Step != 0 {
		parts = append(parts,
			"translation: "+strconv.FormatFloat(it.Translation, 'g', -1, 64),
			"step: "+strconv.FormatFloat(it.Step, 'g', -1, 64))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Render renders the DOT graph in the given format (svg, png or pdf).
func Render(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, format, scale)
}
