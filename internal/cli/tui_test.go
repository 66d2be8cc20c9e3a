package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/deck"
)

func newTestModel(t *testing.T, items ...string) *PlayModel {
	t.Helper()
	cfg := config.Default()
	clock := anim.NewVirtualClock()
	surface := anim.NewMemorySurface(clock)
	d, err := deck.New(surface, clock, items, cfg.DeckOptions(newLogger(io.Discard, LogInfo)))
	if err != nil {
		t.Fatalf("deck.New: %v", err)
	}
	return NewPlayModel(d, surface, clock, cfg.Keys)
}

func (m *PlayModel) settle() { m.Clock.RunUntilIdle(time.Minute) }

func TestPlayModelKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string // top to bottom after settling
	}{
		{"next", []string{"right"}, "D A B C"},
		{"prev", []string{"h"}, "B C D A"},
		{"select and front", []string{"down", "down", "enter"}, "C A B D"},
		{"cursor clamps", []string{"up", "enter"}, "A B C D"},
		{"unbound", []string{"x"}, "A B C D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, "A", "B", "C", "D")
			for _, k := range tt.keys {
				if cmd := m.handleKey(k); cmd != nil {
					t.Fatalf("key %q returned a command", k)
				}
			}
			m.settle()
			if got := strings.Join(m.Deck.ByRank(), " "); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlayModelFanAndClose(t *testing.T) {
	m := newTestModel(t, "A", "B", "C")

	m.handleKey("f")
	m.settle()
	if m.Deck.Closed() {
		t.Fatal("deck should be open after fan")
	}
	if !strings.Contains(m.View(), "fanned") {
		t.Error("view should report the fanned state")
	}

	m.handleKey("c")
	m.settle()
	if !m.Deck.Closed() {
		t.Error("deck should be closed")
	}
	if m.Status != "close" {
		t.Errorf("status = %q, want close", m.Status)
	}
}

func TestPlayModelFrontWhileBusy(t *testing.T) {
	m := newTestModel(t, "A", "B", "C")
	m.handleKey("n")
	m.Cursor = 2
	m.handleKey("enter")
	if m.Status != "busy" {
		t.Errorf("status = %q, want busy", m.Status)
	}
}

func TestPlayModelQuit(t *testing.T) {
	m := newTestModel(t, "A", "B")
	if m.handleKey("q") == nil {
		t.Error("quit key should return a command")
	}
}

func TestPlayModelTick(t *testing.T) {
	m := newTestModel(t, "A", "B")
	m.Init()
	start := m.Clock.Now()
	m.Update(tickMsg(m.last.Add(40 * time.Millisecond)))
	if got := m.Clock.Now() - start; got != 40*time.Millisecond {
		t.Errorf("clock advanced %v, want 40ms", got)
	}
}

func TestDescribeTransform(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"none", ""},
		{"translate(0px) rotate(0deg)", ""},
		{"translate(0px) rotate(30deg)", "↻30°"},
		{"translate(120px) rotate(-15deg)", "→120 ↻-15°"},
		{"translate(0px,12px)", ""},
	}

	for _, tt := range tests {
		if got := describeTransform(tt.in); got != tt.want {
			t.Errorf("describeTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
