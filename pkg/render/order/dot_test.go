package order

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stackdeck/pkg/stack"
)

func TestToDOTDetailed(t *testing.T) {
	items := []stack.Item{
		{ID: "x", Rank: 5, Translation: 12.5, Step: -30},
		{ID: "y", Rank: 6},
	}
	dot := ToDOT(items, Options{Detailed: true})

	for _, want := range []string{
		`"y" [label="y\nrank: 6", fillcolor=`,
		`"x" [label="x\nrank: 5\ntranslation: 12.5\nstep: -30"];`,
		`"y" -> "x";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTSingleItem(t *testing.T) {
	dot := ToDOT([]stack.Item{{ID: "only", Rank: 1000}}, Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("single item should have no edges:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}

	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	items := []stack.Item{{ID: "a", Rank: 2}, {ID: "b", Rank: 1}}
	svg, err := RenderSVG(context.Background(), ToDOT(items, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.HasPrefix(strings.TrimSpace(s[strings.Index(s, "<svg"):]), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected root element: %.200s", s)
	}
	if !strings.Contains(s, ">a<") || !strings.Contains(s, ">b<") {
		t.Error("labels missing from SVG")
	}
}
