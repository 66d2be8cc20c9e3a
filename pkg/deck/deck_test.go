package deck

import (
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
	"github.com/matzehuels/stackdeck/pkg/stack"
)

type harness struct {
	deck    *Deck
	surface *anim.MemorySurface
	clock   *anim.VirtualClock
}

func newHarness(t *testing.T, ids []string, mutate func(*Options)) *harness {
	t.Helper()
	clock := anim.NewVirtualClock()
	surface := anim.NewMemorySurface(clock)
	opts := Options{RNG: fan.NewRNG(1)}
	if mutate != nil {
		mutate(&opts)
	}
	d, err := New(surface, clock, ids, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{deck: d, surface: surface, clock: clock}
}

func (h *harness) settle() { h.clock.RunUntilIdle(time.Minute) }

func ranks(pairs ...any) map[string]int {
	out := make(map[string]int)
	for i := 0; i < len(pairs); i += 2 {
		out[pairs[i].(string)] = pairs[i+1].(int)
	}
	return out
}

func assertRanks(t *testing.T, d *Deck, want map[string]int) {
	t.Helper()
	if got := d.Ranks(); !maps.Equal(got, want) {
		t.Errorf("ranks = %v, want %v", got, want)
	}
}

func TestNewProjectsRanks(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	assertRanks(t, h.deck, ranks("A", 1002, "B", 1001, "C", 1000))
	if got := h.surface.StyleOf("A", "z-index"); got != "1002" {
		t.Errorf("A z-index = %q, want 1002", got)
	}
	if !h.deck.Closed() || h.deck.Animating() {
		t.Error("new deck should be closed and idle")
	}
	if h.deck.Top() != "A" {
		t.Errorf("Top = %q, want A", h.deck.Top())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	clock := anim.NewVirtualClock()
	surface := anim.NewMemorySurface(clock)
	if _, err := New(surface, clock, []string{"A", "A"}, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate ids: err = %v", err)
	}
	if _, err := New(nil, clock, []string{"A"}, Options{}); err == nil {
		t.Error("nil surface accepted")
	}
	bad := fan.DefaultSettings()
	bad.Direction = "up"
	if _, err := New(surface, clock, []string{"A"}, Options{Fan: &bad}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad fan defaults: err = %v", err)
	}
}

func TestNextCyclesFourItems(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C", "D"}, nil)
	start := h.deck.Ranks()

	h.deck.Next(false)
	h.settle()
	assertRanks(t, h.deck, ranks("A", 1002, "B", 1001, "C", 1000, "D", 1003))
	if h.deck.Top() != "D" {
		t.Errorf("Top = %q, want D", h.deck.Top())
	}

	for range 3 {
		h.deck.Next(false)
	}
	h.settle()
	assertRanks(t, h.deck, start)
	if !h.deck.Closed() || h.deck.Animating() {
		t.Error("deck should settle closed and idle")
	}
}

func TestNextQueuesBehindRunningNext(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Next(false)
	if !h.deck.Animating() {
		t.Fatal("next did not start animating")
	}
	h.deck.Next(false)
	if h.deck.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", h.deck.Pending())
	}
	h.settle()

	// two single steps, not one double step
	assertRanks(t, h.deck, ranks("A", 1000, "B", 1002, "C", 1001))
}

func TestNextPreviousInverse(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C", "D", "E"}, nil)
	start := h.deck.Ranks()
	h.deck.Next(false)
	h.deck.Previous(false)
	h.settle()
	assertRanks(t, h.deck, start)
}

func TestFadeNavigation(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, nil)
	h.deck.Next(true)
	h.settle()
	if h.deck.Top() != "B" {
		t.Errorf("Top = %q, want B", h.deck.Top())
	}
	if got := h.surface.StyleOf("B", "opacity"); got != "1" {
		t.Errorf("B opacity = %q, want 1", got)
	}
	if got := h.surface.StyleOf("B", "transform"); got != "" {
		t.Errorf("fade moved B: transform = %q", got)
	}
}

func TestNavigateAndFanNeedTwoItems(t *testing.T) {
	h := newHarness(t, []string{"A"}, nil)
	h.deck.Next(false)
	h.deck.Fan(nil)
	if h.deck.Animating() || h.deck.Pending() != 0 {
		t.Error("single-item deck accepted navigate or fan")
	}
	if h.clock.Pending() != 0 {
		t.Errorf("rejected operations scheduled %d timers", h.clock.Pending())
	}
}

func TestMoveToFront(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	updates := 0
	h.deck.On(func() { updates++ })

	h.deck.MoveToFront("C")
	h.settle()

	assertRanks(t, h.deck, ranks("A", 1001, "B", 1000, "C", 1002))
	if updates != 1 {
		t.Errorf("updates = %d, want 1", updates)
	}
	if got := h.surface.StyleOf("C", "opacity"); got != "1" {
		t.Errorf("C opacity = %q, want 1", got)
	}
	if got := h.surface.StyleOf("C", "transform"); got != "none" {
		t.Errorf("C transform = %q, want none", got)
	}
	if h.surface.Listeners() != 0 {
		t.Errorf("leaked %d listeners", h.surface.Listeners())
	}
}

func TestMoveToFrontOfTopIsNoop(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	updates := 0
	h.deck.On(func() { updates++ })
	start := h.deck.Ranks()

	h.deck.MoveToFront("A")
	if h.deck.Animating() {
		t.Error("promoting the top item started an animation")
	}
	assertRanks(t, h.deck, start)
	if updates != 0 {
		t.Errorf("updates = %d, want 0", updates)
	}

	h.deck.MoveToFront("nope")
	if h.deck.Animating() {
		t.Error("unknown item dispatched")
	}
}

func TestFan(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	if !h.deck.Animating() {
		t.Fatal("fan did not start")
	}
	h.settle()

	if h.deck.Closed() || h.deck.Animating() {
		t.Fatal("fanned deck should be open and idle")
	}
	want := map[string]string{
		"A": "translate(0px) rotate(45deg)",
		"B": "translate(0px) rotate(0deg)",
		"C": "translate(0px) rotate(-45deg)",
	}
	for id, tr := range want {
		if got := h.surface.StyleOf(id, "transform"); got != tr {
			t.Errorf("%s transform = %q, want %q", id, got, tr)
		}
		if got := h.surface.StyleOf(id, "transform-origin"); got != "25% 100%" {
			t.Errorf("%s origin = %q", id, got)
		}
	}
	if it, _ := h.deck.Item("C"); it.Step != -45 {
		t.Errorf("saved step = %v, want -45", it.Step)
	}
	if lf := h.deck.LastFan(); lf == nil || lf.Range != 90 {
		t.Errorf("LastFan = %+v", lf)
	}
	if h.surface.Listeners() != 0 {
		t.Errorf("leaked %d listeners", h.surface.Listeners())
	}
}

func TestFanWithConfig(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(&fan.Config{Range: 60, Translation: 20, Direction: fan.Left, Center: fan.Bool(false)})
	h.settle()
	if got := h.surface.StyleOf("A", "transform"); got != "translate(-20px) rotate(-60deg)" {
		t.Errorf("A transform = %q", got)
	}
}

func TestFanSameSettingsTwiceCompletes(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	h.settle()
	h.deck.Fan(nil)
	h.settle()
	if h.deck.Animating() || h.deck.Closed() {
		t.Error("second fan did not settle open")
	}
}

func TestOperationOnOpenDeckClosesFirst(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	h.settle()

	h.deck.Next(false)
	h.settle()
	if !h.deck.Closed() {
		t.Error("deck not closed after navigate")
	}
	for _, id := range []string{"A", "B"} {
		if got := h.surface.StyleOf(id, "transform"); got != "none" {
			t.Errorf("%s transform = %q, want none", id, got)
		}
		if got := h.surface.StyleOf(id, "transform-origin"); got != "50% 50%" {
			t.Errorf("%s origin = %q, want 50%% 50%%", id, got)
		}
	}
	if h.deck.Top() != "C" {
		t.Errorf("Top = %q, want C", h.deck.Top())
	}
}

func TestClose(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	h.deck.Close()
	h.settle()
	if h.deck.Closed() || h.deck.LastFan() == nil {
		t.Fatal("close while animating was not ignored")
	}

	h.deck.Close()
	h.settle()
	if !h.deck.Closed() {
		t.Error("close did not close")
	}
	if h.deck.LastFan() != nil {
		t.Error("close kept the last fan")
	}
}

func TestReFanAfterNavigate(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) { o.ReFanAfterClose = true })
	h.deck.Fan(nil)
	h.settle()
	h.deck.Next(false)
	h.settle()

	if h.deck.Closed() {
		t.Fatal("deck was not re-fanned")
	}
	if got := h.surface.StyleOf("C", "transform"); got != "translate(0px) rotate(45deg)" {
		t.Errorf("new top transform = %q", got)
	}
}

func TestNoReFanAfterClose(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) { o.ReFanAfterClose = true })
	h.deck.Fan(nil)
	h.settle()
	h.deck.Close()
	h.settle()
	if !h.deck.Closed() || h.deck.LastFan() != nil {
		t.Error("explicit close was followed by a re-fan")
	}
}

func TestNoReFanWithoutOption(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	h.settle()
	h.deck.Next(false)
	h.settle()
	if !h.deck.Closed() {
		t.Error("deck re-fanned without ReFanAfterClose")
	}
}

func TestAddRemoveEmpty(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	start := h.deck.Ranks()
	calls := 0
	h.deck.Add(nil, func() { calls++ })
	h.deck.Remove([]string{}, func() { calls++ })
	h.deck.Remove([]string{"missing"}, func() { calls++ })
	h.deck.Add([]string{"A"}, func() { calls++ })

	if calls != 4 {
		t.Errorf("callbacks = %d, want 4", calls)
	}
	if h.deck.Animating() || !h.deck.Closed() || h.deck.Len() != 3 {
		t.Error("empty add/remove changed state")
	}
	assertRanks(t, h.deck, start)
}

func TestAdd(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	calls := 0
	h.deck.Add([]string{"D", "E"}, func() { calls++ })
	if got := h.surface.StyleOf("D", "opacity"); got != "0" {
		t.Errorf("new item opacity = %q, want 0", got)
	}
	h.settle()

	if calls != 1 {
		t.Errorf("callbacks = %d, want 1", calls)
	}
	assertRanks(t, h.deck, ranks("A", 1004, "B", 1003, "C", 1002, "D", 1001, "E", 1000))
	for _, id := range []string{"D", "E"} {
		el, ok := h.surface.Element(id)
		if !ok {
			t.Fatalf("%s not mounted", id)
		}
		if el.Style["opacity"] != "1" || el.Style["transform"] != "none" || el.Transition != nil {
			t.Errorf("%s did not settle: %+v", id, el)
		}
	}
}

func TestAddWithCustomTransform(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, nil)
	h.deck.AddWith([]string{"C"}, "translate(-300px)", nil)
	if got := h.surface.StyleOf("C", "transform"); got != "translate(-300px)" {
		t.Errorf("enter transform = %q", got)
	}
	h.settle()
	if h.deck.Len() != 3 {
		t.Errorf("Len = %d", h.deck.Len())
	}
}

func TestRemove(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	calls := 0
	h.deck.Remove([]string{"B", "B"}, func() { calls++ })
	if got := h.surface.StyleOf("B", "z-index"); got != "3000" {
		t.Errorf("removed item z-index = %q, want 3000", got)
	}
	h.settle()

	if calls != 1 {
		t.Errorf("callbacks = %d, want 1", calls)
	}
	assertRanks(t, h.deck, ranks("A", 1001, "C", 1000))
	if _, ok := h.surface.Element("B"); ok {
		t.Error("B still mounted")
	}
}

func TestMerge(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	calls := 0
	h.deck.Merge([]string{"B", "C", "D"}, func() { calls++ })
	h.settle()

	if got := h.deck.IDs(); !slices.Equal(got, []string{"B", "C", "D"}) {
		t.Errorf("IDs = %v", got)
	}
	if calls != 1 {
		t.Errorf("callbacks = %d, want 1", calls)
	}
	assertRanks(t, h.deck, ranks("B", 1002, "C", 1001, "D", 1000))
}

func TestOrderBy(t *testing.T) {
	h := newHarness(t, []string{"card-3", "card-1", "card-2"}, nil)
	h.deck.OrderBy(nil)
	h.settle()
	if got := h.deck.IDs(); !slices.Equal(got, []string{"card-1", "card-2", "card-3"}) {
		t.Errorf("IDs = %v", got)
	}
	if h.deck.Top() != "card-1" {
		t.Errorf("Top = %q", h.deck.Top())
	}

	h.deck.OrderBy(func(a, b *stack.Item) int { return strings.Compare(b.ID, a.ID) })
	h.settle()
	if h.deck.Top() != "card-3" {
		t.Errorf("Top = %q after custom order", h.deck.Top())
	}
}

func TestOrderByWithoutSuffixKeepsOrder(t *testing.T) {
	h := newHarness(t, []string{"b", "a1"}, nil)
	updates := 0
	h.deck.On(func() { updates++ })
	h.deck.OrderBy(nil)
	h.settle()
	if got := h.deck.IDs(); !slices.Equal(got, []string{"b", "a1"}) {
		t.Errorf("IDs = %v", got)
	}
	if updates != 0 || h.deck.Animating() {
		t.Error("failed reorder notified or stayed animating")
	}
}

func TestNotificationsFireBeforeQueuedOperation(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	var seen []map[string]int
	h.deck.On(func() { seen = append(seen, h.deck.Ranks()) })

	h.deck.Next(false)
	h.deck.Next(false)
	h.settle()

	if len(seen) != 2 {
		t.Fatalf("notifications = %d, want 2", len(seen))
	}
	if want := ranks("A", 1001, "B", 1000, "C", 1002); !maps.Equal(seen[0], want) {
		t.Errorf("first notification saw %v, want %v", seen[0], want)
	}
}

func TestOff(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, nil)
	calls := 0
	id := h.deck.On(func() { calls++ })
	h.deck.Off(id)
	h.deck.Off(999)
	h.deck.Next(false)
	h.settle()
	if calls != 0 {
		t.Errorf("unsubscribed callback ran %d times", calls)
	}
}

func TestHandleTriggerAndClick(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) {
		o.NextTrigger = "nav-next"
		o.PrevTrigger = "nav-prev"
	})
	if h.deck.HandleTrigger("other") {
		t.Error("unbound trigger handled")
	}
	if !h.deck.HandleTrigger("nav-next") {
		t.Fatal("next trigger not handled")
	}
	if h.deck.HandleClick("B") {
		t.Error("click handled while animating")
	}
	h.settle()
	if h.deck.Top() != "C" {
		t.Errorf("Top = %q, want C", h.deck.Top())
	}

	if !h.deck.HandleClick("B") {
		t.Fatal("click not handled")
	}
	h.settle()
	if h.deck.Top() != "B" {
		t.Errorf("Top = %q, want B", h.deck.Top())
	}
}

func TestClickWithoutDefaultEvents(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, func(o *Options) { o.BindDefaultEvents = fan.Bool(false) })
	if h.deck.HandleClick("B") {
		t.Error("click handled with default events unbound")
	}
}

func TestWithoutTransitionsIsSynchronous(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) {
		o.Capabilities = &anim.Capabilities{Transitions: false}
	})
	h.deck.Next(false)
	if h.deck.Animating() {
		t.Fatal("navigate without transitions did not complete synchronously")
	}
	if h.deck.Top() != "C" {
		t.Errorf("Top = %q, want C", h.deck.Top())
	}
	h.deck.Fan(nil)
	if h.deck.Animating() || h.deck.Closed() {
		t.Error("fan without transitions did not complete synchronously")
	}
}

func TestTimeoutRecoversLostSignal(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) {
		o.Capabilities = &anim.Capabilities{Transitions: true, Signals: map[string]string{anim.TransitionEnd: "dropped"}}
		o.OperationTimeout = 2 * time.Second
	})
	h.deck.Next(false)
	h.clock.Advance(time.Second)
	if !h.deck.Animating() {
		t.Fatal("navigate finished without a completion signal")
	}
	h.clock.Advance(time.Second)
	if h.deck.Animating() {
		t.Error("timeout did not return the deck to idle")
	}
}

// cssSurface drops writes of a transform that leaves the item in place,
// as a browser does: no property change, no transitionend.
type cssSurface struct {
	*anim.MemorySurface
}

func (s cssSurface) SetStyle(ids []string, style anim.Style) {
	t, ok := style["transform"]
	if !ok || !fan.IsIdentity(t) {
		s.MemorySurface.SetStyle(ids, style)
		return
	}
	rest := maps.Clone(style)
	delete(rest, "transform")
	for _, id := range ids {
		if fan.IsIdentity(s.StyleOf(id, "transform")) {
			s.MemorySurface.SetStyle([]string{id}, rest)
		} else {
			s.MemorySurface.SetStyle([]string{id}, style)
		}
	}
}

func TestFanIdentityTransformDoesNotStall(t *testing.T) {
	clock := anim.NewVirtualClock()
	surface := cssSurface{anim.NewMemorySurface(clock)}
	d, err := New(surface, clock, []string{"A", "B", "C"}, Options{RNG: fan.NewRNG(1), OperationTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// B sits in the middle of a centered fan and stays put.
	d.Fan(nil)
	clock.Advance(time.Second)
	if d.Animating() {
		t.Fatal("fan waited for a signal from an item that did not move")
	}
	if d.Closed() {
		t.Error("deck not open after fan")
	}
}

func TestTimeoutAbandonsOperation(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, func(o *Options) {
		o.Speed = 300 * time.Millisecond
		o.OperationTimeout = 100 * time.Millisecond
	})
	updates := 0
	h.deck.On(func() { updates++ })

	h.deck.Next(false)
	h.clock.Advance(150 * time.Millisecond)
	if h.deck.Animating() {
		t.Fatal("timeout did not release the deck")
	}
	if n := h.surface.Listeners(); n != 0 {
		t.Errorf("abandoned navigate left %d listeners", n)
	}

	// The transition of the abandoned navigate still ends on the surface
	// while the next operation runs.
	h.deck.Previous(false)
	h.settle()
	if updates != 0 {
		t.Errorf("abandoned operations updated ranks %d times", updates)
	}
	assertRanks(t, h.deck, ranks("A", 1002, "B", 1001, "C", 1000))
	if h.deck.Animating() || h.surface.Listeners() != 0 {
		t.Errorf("animating = %v listeners = %d after settle", h.deck.Animating(), h.surface.Listeners())
	}
}

func TestDestroy(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	calls := 0
	h.deck.On(func() { calls++ })
	h.deck.Next(false)
	h.deck.Destroy()
	h.settle()

	if calls != 0 {
		t.Errorf("destroyed deck notified %d times", calls)
	}
	if got := h.surface.StyleOf("A", "z-index"); got != "0" {
		t.Errorf("z-index = %q, want 0", got)
	}
	h.deck.Next(false)
	if h.deck.Animating() || h.deck.Top() != "" {
		t.Error("destroyed deck still operates")
	}
	if _, err := Invoke(h.deck, "next"); !errors.Is(err, errors.ErrCodeNotInitialized) {
		t.Errorf("Invoke on destroyed deck: err = %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)
	h.deck.Fan(nil)
	h.deck.Next(false)
	h.settle()
	snap := h.deck.Snapshot()

	clock := anim.NewVirtualClock()
	d, err := FromSnapshot(anim.NewMemorySurface(clock), clock, snap, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(d.Ranks(), h.deck.Ranks()) {
		t.Errorf("restored ranks = %v, want %v", d.Ranks(), h.deck.Ranks())
	}
	if d.LastFan() == nil {
		t.Error("last fan not restored")
	}

	other := Snapshot{Stack: stack.Snapshot{Baseline: 1000, Order: []string{"X", "Y"}}}
	if err := h.deck.Restore(other); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("mismatched restore: err = %v", err)
	}
}
