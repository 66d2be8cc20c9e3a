package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	if got := cfg.FanSettings(); got != fan.DefaultSettings() {
		t.Errorf("FanSettings() = %+v, want fan defaults", got)
	}
}

func TestDecode(t *testing.T) {
	data := `
[deck]
items = ["a1", "a2", "a3"]
speed = "450ms"
refan_after_close = true
seed = 7

[fan]
range = 120
direction = "left"
scatter = true
origin = { min_x = 10, max_x = 90 }

[keys]
next = ["j"]

[store]
backend = "redis"
redis_addr = "cache:6379"
`
	cfg := Default()
	if err := Decode([]byte(data), cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Deck.Speed != 450*time.Millisecond || !cfg.Deck.ReFanAfterClose {
		t.Errorf("deck = %+v", cfg.Deck)
	}
	s := cfg.FanSettings()
	if s.Range != 120 || s.Direction != fan.Left || !s.Scatter || !s.Rotate {
		t.Errorf("fan = %+v", s)
	}
	if !s.Origin.HasRange() || s.Origin.Y != 100 {
		t.Errorf("origin = %+v", s.Origin)
	}
	if cfg.Keys.Action("j") != "next" || cfg.Keys.Action("n") != "" {
		t.Errorf("keys not replaced: %+v", cfg.Keys.Next)
	}
	if cfg.Keys.Action("q") != "quit" {
		t.Error("default quit binding lost")
	}

	opts := cfg.DeckOptions(nil)
	if opts.Speed != 450*time.Millisecond || opts.RNG == nil || opts.Fan.Range != 120 {
		t.Errorf("DeckOptions = %+v", opts)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[deck"},
		{"unknown key", "[deck]\ncolour = 'red'"},
		{"bad direction", "[fan]\ndirection = 'up'"},
		{"bad backend", "[store]\nbackend = 'sqlite'"},
		{"mongo without uri", "[store]\nbackend = 'mongo'"},
		{"bad item", "[deck]\nitems = ['']"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode([]byte(tt.data), Default())
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("missing explicit file accepted")
	}

	path, _ := DefaultPath()
	if path != filepath.Join(dir, "stackdeck", "config.toml") {
		t.Errorf("DefaultPath = %q", path)
	}
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("[server]\naddr = ':9090'\n"), 0o644)
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := Decode(buf.Bytes(), cfg); err != nil {
		t.Fatalf("decode written config: %v\n%s", err, buf.String())
	}
	if cfg.Deck.Speed != Default().Deck.Speed {
		t.Errorf("speed = %v", cfg.Deck.Speed)
	}
}
