package deck

import (
	"testing"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

func TestInvokeRejectsUnknownMethods(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, nil)
	tests := []string{"shuffle", "_navigate", "_dispatch", ""}
	for _, method := range tests {
		t.Run(method, func(t *testing.T) {
			if _, err := Invoke(h.deck, method); !errors.Is(err, errors.ErrCodeUnknownMethod) {
				t.Errorf("err = %v, want UNKNOWN_METHOD", err)
			}
		})
	}
	if h.deck.Animating() {
		t.Error("rejected method changed state")
	}
}

func TestInvokeNilDeck(t *testing.T) {
	if _, err := Invoke(nil, "next"); !errors.Is(err, errors.ErrCodeNotInitialized) {
		t.Errorf("err = %v, want NOT_INITIALIZED", err)
	}
}

func TestInvokeRoutesMethods(t *testing.T) {
	h := newHarness(t, []string{"A", "B", "C"}, nil)

	top, err := Invoke(h.deck, "getTop")
	if err != nil || top != "A" {
		t.Fatalf("getTop = %v, %v", top, err)
	}

	calls := 0
	sub, err := Invoke(h.deck, "on", func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Invoke(h.deck, "next"); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if h.deck.Top() != "C" || calls != 1 {
		t.Errorf("after next: top = %q calls = %d", h.deck.Top(), calls)
	}

	if _, err := Invoke(h.deck, "off", sub); err != nil {
		t.Fatal(err)
	}
	if _, err := Invoke(h.deck, "moveToFront", "B"); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if h.deck.Top() != "B" || calls != 1 {
		t.Errorf("after moveToFront: top = %q calls = %d", h.deck.Top(), calls)
	}

	if _, err := Invoke(h.deck, "fan", "range=60", "direction=left"); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if lf := h.deck.LastFan(); lf == nil || lf.Range != 60 || lf.Direction != "left" {
		t.Errorf("LastFan = %+v", lf)
	}

	if _, err := Invoke(h.deck, "close"); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if !h.deck.Closed() {
		t.Error("close not routed")
	}

	done := 0
	if _, err := Invoke(h.deck, "add", "D", []string{"E"}, func() { done++ }); err != nil {
		t.Fatal(err)
	}
	if _, err := Invoke(h.deck, "remove", "A", func() { done++ }); err != nil {
		t.Fatal(err)
	}
	h.settle()
	if h.deck.Len() != 4 || done != 2 {
		t.Errorf("Len = %d done = %d", h.deck.Len(), done)
	}
}

func TestInvokeArgumentErrors(t *testing.T) {
	h := newHarness(t, []string{"A", "B"}, nil)
	tests := []struct {
		method string
		args   []any
	}{
		{"fan", []any{"range"}},
		{"fan", []any{42}},
		{"next", []any{"sideways"}},
		{"moveToFront", nil},
		{"add", []any{func() {}, "A"}},
		{"on", []any{"not a func"}},
		{"off", []any{"x"}},
		{"orderBy", []any{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if _, err := Invoke(h.deck, tt.method, tt.args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
	if h.deck.Animating() {
		t.Error("bad arguments dispatched work")
	}
}
