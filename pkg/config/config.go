// Package config loads stackdeck settings from a TOML file.
//
// The file has one table per concern:
//
//	[deck]    widget options and the initial items
//	[fan]     fan defaults
//	[keys]    terminal key bindings
//	[store]   snapshot storage backend
//	[server]  HTTP service
//
// Every field is optional. Load merges the file over [Default], and command
// line flags override the result.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdeck/pkg/anim"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/fan"
)

const appName = "stackdeck"

// Store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
	StoreMongo = "mongo"
	StoreNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Deck   Deck   `toml:"deck"`
	Fan    Fan    `toml:"fan"`
	Keys   Keys   `toml:"keys"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
}

// Deck holds widget options.
type Deck struct {
	Items             []string      `toml:"items"`
	Speed             time.Duration `toml:"speed"`
	Easing            string        `toml:"easing"`
	ReFanAfterClose   bool          `toml:"refan_after_close"`
	BindDefaultEvents *bool         `toml:"bind_default_events"`
	Baseline          int           `toml:"baseline"`
	ItemWidth         float64       `toml:"item_width"`
	OperationTimeout  time.Duration `toml:"operation_timeout"`
	EnterTransform    string        `toml:"enter_transform"`
	Transitions       *bool         `toml:"transitions"`
	Seed              uint64        `toml:"seed"`
}

// Fan holds the fan defaults. Booleans are pointers so an absent key keeps
// the built-in default.
type Fan struct {
	Speed       time.Duration `toml:"speed"`
	Easing      string        `toml:"easing"`
	Range       float64       `toml:"range"`
	Direction   string        `toml:"direction"`
	Origin      fan.Origin    `toml:"origin"`
	Translation float64       `toml:"translation"`
	Center      *bool         `toml:"center"`
	Scatter     *bool         `toml:"scatter"`
	Rotate      *bool         `toml:"rotate"`
}

// Keys binds terminal keys to deck actions.
type Keys struct {
	Next  []string `toml:"next"`
	Prev  []string `toml:"prev"`
	Fan   []string `toml:"fan"`
	Close []string `toml:"close"`
	Front []string `toml:"front"`
	Quit  []string `toml:"quit"`
}

// Store selects where deck snapshots are kept.
type Store struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	TTL             time.Duration `toml:"ttl"`
	RedisAddr       string        `toml:"redis_addr"`
	RedisPassword   string        `toml:"redis_password"`
	RedisDB         int           `toml:"redis_db"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
}

// Server configures the HTTP service.
type Server struct {
	Addr     string `toml:"addr"`
	MaxDecks int    `toml:"max_decks"`
	Metrics  bool   `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := fan.DefaultSettings()
	return &Config{
		Deck: Deck{
			Items:            []string{"card-1", "card-2", "card-3", "card-4", "card-5"},
			Speed:            deck.DefaultSpeed,
			Easing:           deck.DefaultEasing,
			Baseline:         1000,
			ItemWidth:        deck.DefaultItemWidth,
			OperationTimeout: deck.DefaultOperationTimeout,
			EnterTransform:   deck.DefaultEnterTransform,
		},
		Fan: Fan{
			Speed:     d.Speed,
			Easing:    d.Easing,
			Range:     d.Range,
			Direction: string(d.Direction),
			Origin:    d.Origin,
			Center:    fan.Bool(d.Center),
			Scatter:   fan.Bool(d.Scatter),
			Rotate:    fan.Bool(d.Rotate),
		},
		Keys: Keys{
			Next:  []string{"right", "l", "n"},
			Prev:  []string{"left", "h", "p"},
			Fan:   []string{"f", " "},
			Close: []string{"c"},
			Front: []string{"enter"},
			Quit:  []string{"q", "ctrl+c", "esc"},
		},
		Store: Store{
			Backend:         StoreFile,
			TTL:             30 * 24 * time.Hour,
			RedisAddr:       "localhost:6379",
			MongoDatabase:   appName,
			MongoCollection: "snapshots",
		},
		Server: Server{
			Addr:     ":8080",
			MaxDecks: 1024,
			Metrics:  true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/stackdeck/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path loads the default path
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.ValidateAndSetDefaults()
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ValidateAndSetDefaults fills zero values from Default and checks the
// values that cannot be used.
func (c *Config) ValidateAndSetDefaults() error {
	def := Default()
	if c.Deck.Speed == 0 {
		c.Deck.Speed = def.Deck.Speed
	}
	if c.Deck.Easing == "" {
		c.Deck.Easing = def.Deck.Easing
	}
	if c.Deck.Baseline == 0 {
		c.Deck.Baseline = def.Deck.Baseline
	}
	if c.Deck.ItemWidth == 0 {
		c.Deck.ItemWidth = def.Deck.ItemWidth
	}
	if c.Deck.OperationTimeout == 0 {
		c.Deck.OperationTimeout = def.Deck.OperationTimeout
	}
	if c.Deck.Speed < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "deck.speed cannot be negative")
	}
	for _, id := range c.Deck.Items {
		if err := errors.ValidateItemID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "deck.items")
		}
	}

	if err := c.FanSettings().Validate(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case "":
		c.Store.Backend = def.Store.Backend
	case StoreFile, StoreRedis, StoreMongo, StoreNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be one of file, redis, mongo, none; got %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.MaxDecks <= 0 {
		c.Server.MaxDecks = def.Server.MaxDecks
	}
	return nil
}

// FanSettings resolves the [fan] table against the built-in fan defaults.
func (c *Config) FanSettings() fan.Settings {
	origin := c.Fan.Origin
	return fan.Resolve(fan.Config{
		Speed:       c.Fan.Speed,
		Easing:      c.Fan.Easing,
		Range:       c.Fan.Range,
		Direction:   fan.Direction(c.Fan.Direction),
		Origin:      &origin,
		Translation: c.Fan.Translation,
		Center:      c.Fan.Center,
		Scatter:     c.Fan.Scatter,
		Rotate:      c.Fan.Rotate,
	}, fan.DefaultSettings())
}

// DeckOptions builds deck options. Hosts report the "next" and "prev"
// triggers.
func (c *Config) DeckOptions(logger *log.Logger) deck.Options {
	s := c.FanSettings()
	opts := deck.Options{
		NextTrigger:       "next",
		PrevTrigger:       "prev",
		Speed:             c.Deck.Speed,
		Easing:            c.Deck.Easing,
		ReFanAfterClose:   c.Deck.ReFanAfterClose,
		BindDefaultEvents: c.Deck.BindDefaultEvents,
		Baseline:          c.Deck.Baseline,
		ItemWidth:         c.Deck.ItemWidth,
		OperationTimeout:  c.Deck.OperationTimeout,
		Fan:               &s,
		EnterTransform:    c.Deck.EnterTransform,
		Logger:            logger,
	}
	if c.Deck.Transitions != nil {
		caps := anim.Capabilities{Transitions: *c.Deck.Transitions}
		opts.Capabilities = &caps
	}
	if c.Deck.Seed != 0 {
		opts.RNG = fan.NewRNG(c.Deck.Seed)
	}
	return opts
}

// Action returns the deck action bound to a key, or "".
func (k Keys) Action(key string) string {
	switch {
	case slices.Contains(k.Next, key):
		return "next"
	case slices.Contains(k.Prev, key):
		return "prev"
	case slices.Contains(k.Fan, key):
		return "fan"
	case slices.Contains(k.Close, key):
		return "close"
	case slices.Contains(k.Front, key):
		return "front"
	case slices.Contains(k.Quit, key):
		return "quit"
	}
	return ""
}
