package preview

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/stackdeck/pkg/fan"
)

func placements(t *testing.T, n int, cfg fan.Config) []fan.Placement {
	t.Helper()
	slots := make([]fan.Slot, n)
	for i := range slots {
		slots[i] = fan.Slot{ID: string(rune('a' + i)), Position: i}
	}
	ps, err := fan.Compute(slots, fan.Resolve(cfg, fan.DefaultSettings()), nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return ps
}

func TestRenderSVGOrder(t *testing.T) {
	svg := string(RenderSVG(placements(t, 3, fan.Config{})))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("missing svg root: %.80s", svg)
	}
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("rect count = %d, want 3", got)
	}
	// position 0 is the top item and must be painted last
	ia, ib, ic := strings.Index(svg, `id="card-a"`), strings.Index(svg, `id="card-b"`), strings.Index(svg, `id="card-c"`)
	if !(ic < ib && ib < ia) {
		t.Errorf("paint order c,b,a expected; got offsets a=%d b=%d c=%d", ia, ib, ic)
	}
}

func TestRenderSVGTransforms(t *testing.T) {
	ps := placements(t, 3, fan.Config{Range: 60, Translation: 20})
	svg := string(RenderSVG(ps, WithItemSize(100, 200)))

	// origin 25% 100% of a 100x200 card
	if !strings.Contains(svg, `transform="translate(20.00 0) rotate(30.00 25.00 200.00)"`) {
		t.Errorf("top card transform missing:\n%s", svg)
	}

	flat := placements(t, 2, fan.Config{Rotate: fan.Bool(false), Range: 40})
	svg = string(RenderSVG(flat))
	if !strings.Contains(svg, `transform="translate(0.00 20.00)"`) {
		t.Errorf("vertical offset transform missing:\n%s", svg)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	ps := placements(t, 2, fan.Config{})
	svg := string(RenderSVG(ps, WithLabels(map[string]string{"a": "Ace <1>"}), WithHighlight("a")))

	if !strings.Contains(svg, "Ace &lt;1&gt;") {
		t.Error("label should be escaped and used")
	}
	if !strings.Contains(svg, ">b</text>") {
		t.Error("unlabelled card should show its ID")
	}
	if strings.Count(svg, `stroke="#0097a7"`) != 1 {
		t.Error("exactly one card should be highlighted")
	}
}

func TestBounds(t *testing.T) {
	r := renderer{width: 100, height: 100}

	minX, minY, maxX, maxY := r.bounds(nil)
	if minX != 0 || minY != 0 || maxX != 100 || maxY != 100 {
		t.Errorf("empty bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}

	// 90deg about the center maps the box onto itself
	p := fan.Placement{Rotate: true, Step: 90, HasOrigin: true, OriginX: 50, OriginY: 50}
	minX, minY, maxX, maxY = r.bounds([]fan.Placement{p})
	for _, v := range []struct{ got, want float64 }{{minX, 0}, {minY, 0}, {maxX, 100}, {maxY, 100}} {
		if math.Abs(v.got-v.want) > 1e-9 {
			t.Errorf("rotated bounds = %v %v %v %v", minX, minY, maxX, maxY)
			break
		}
	}
}
