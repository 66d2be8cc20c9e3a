package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// testCLI returns a CLI whose default config path points at an empty dir.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func simulate(t *testing.T, script string, noTransitions bool) string {
	t.Helper()
	var out bytes.Buffer
	err := testCLI(t).runSimulate(&out, strings.NewReader(script), []string{"A", "B", "C", "D"}, 1, noTransitions)
	if err != nil {
		t.Fatalf("runSimulate: %v", err)
	}
	return out.String()
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "start",
			script: "",
			want:   []string{"start  A B C D", "done   closed=true"},
		},
		{
			name:   "next",
			script: "next\nsettle\nshow\n",
			want:   []string{"next", "order  D A B C", "show   D A B C"},
		},
		{
			name:   "previous alias",
			script: "prev\nsettle\nshow\n",
			want:   []string{"previous", "show   B C D A"},
		},
		{
			name:   "get top",
			script: "top\n",
			want:   []string{"getTop", "result A"},
		},
		{
			name:   "front",
			script: "front C\nsettle\nshow\n",
			want:   []string{"moveToFront C", "show   C A B D"},
		},
		{
			name:   "fan leaves deck open",
			script: "fan range=60\nsettle\n",
			want:   []string{"fan    range=60", "done   closed=false"},
		},
		{
			name:   "comments and blank lines",
			script: "# nothing\n\n   \nshow\n",
			want:   []string{"show   A B C D"},
		},
		{
			name:   "unknown method",
			script: "shuffle\n",
			want:   []string{"shuffle", "error"},
		},
		{
			name:   "bad arguments keep going",
			script: "moveToFront\nshow\n",
			want:   []string{"error", "show   A B C D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simulate(t, tt.script, false)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("trace missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestSimulateNoTransitions(t *testing.T) {
	got := simulate(t, "next\nnext\nsettle\nshow\n", true)
	if !strings.Contains(got, "show   C D A B") {
		t.Errorf("queued steps should both land:\n%s", got)
	}
}

func TestSimulateTimestamps(t *testing.T) {
	got := simulate(t, "wait 250ms\nshow\n", false)
	if !strings.Contains(got, "250ms  show") {
		t.Errorf("show should be stamped at 250ms:\n%s", got)
	}
}

func TestSimulateScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"wait without duration", "wait\n"},
		{"wait bad duration", "show\nwait soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := testCLI(t).runSimulate(&out, strings.NewReader(tt.script), []string{"A", "B"}, 1, false)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "line ") {
				t.Errorf("error %q should name the line", err)
			}
		})
	}
}

func TestSimulateInvalidItems(t *testing.T) {
	var out bytes.Buffer
	err := testCLI(t).runSimulate(&out, strings.NewReader(""), []string{"A", "A"}, 1, false)
	if err == nil {
		t.Fatal("duplicate items should fail")
	}
}
