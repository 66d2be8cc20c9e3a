package fan

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

// Direction is the side the fan opens towards.
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
)

// Origin is a transform origin in percent of the item box. When both MinX
// and MaxX are non-zero, X is interpolated per item across [MinX, MaxX].
type Origin struct {
	X    float64 `json:"x,omitempty" toml:"x"`
	Y    float64 `json:"y,omitempty" toml:"y"`
	MinX float64 `json:"min_x,omitempty" toml:"min_x"`
	MaxX float64 `json:"max_x,omitempty" toml:"max_x"`
}

// HasRange reports whether the origin interpolates X per item.
func (o Origin) HasRange() bool { return o.MinX != 0 && o.MaxX != 0 }

// Settings is a fully resolved fan configuration.
type Settings struct {
	Speed       time.Duration `json:"speed"`
	Easing      string        `json:"easing"`
	Range       float64       `json:"range"`       // total angular spread in degrees
	Direction   Direction     `json:"direction"`   // left or right
	Origin      Origin        `json:"origin"`      // transform origin
	Translation float64       `json:"translation"` // total horizontal spread
	Center      bool          `json:"center"`
	Scatter     bool          `json:"scatter"`
	Rotate      bool          `json:"rotate"`
}

// DefaultSettings returns the fan defaults.
func DefaultSettings() Settings {
	return Settings{
		Speed:       500 * time.Millisecond,
		Easing:      "ease-out",
		Range:       90,
		Direction:   Right,
		Origin:      Origin{X: 25, Y: 100},
		Translation: 0,
		Center:      true,
		Scatter:     false,
		Rotate:      true,
	}
}

// Config is a fan request. Zero values mean "use the default".
type Config struct {
	Speed       time.Duration
	Easing      string
	Range       float64
	Direction   Direction
	Origin      *Origin
	Translation float64
	Center      *bool
	Scatter     *bool
	Rotate      *bool
}

// Bool returns a pointer to b, for filling the tri-state fields of [Config].
func Bool(b bool) *bool { return &b }

// Resolve fills the unset fields of c from defaults.
func Resolve(c Config, defaults Settings) Settings {
	s := defaults
	if c.Origin != nil {
		o := *c.Origin
		if o.X == 0 {
			o.X = defaults.Origin.X
		}
		if o.Y == 0 {
			o.Y = defaults.Origin.Y
		}
		s.Origin = o
	}
	if c.Speed != 0 {
		s.Speed = c.Speed
	}
	if c.Easing != "" {
		s.Easing = c.Easing
	}
	if c.Direction != "" {
		s.Direction = c.Direction
	}
	if c.Range != 0 {
		s.Range = c.Range
	}
	if c.Translation != 0 {
		s.Translation = c.Translation
	}
	if c.Center != nil {
		s.Center = *c.Center
	}
	if c.Scatter != nil {
		s.Scatter = *c.Scatter
	}
	if c.Rotate != nil {
		s.Rotate = *c.Rotate
	}
	return s
}

// Validate checks the values that Compute cannot work with.
func (s Settings) Validate() error {
	if s.Direction != Left && s.Direction != Right {
		return errors.New(errors.ErrCodeInvalidConfig, "fan direction must be left or right, got %q", s.Direction)
	}
	if s.Speed < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fan speed cannot be negative")
	}
	if s.Origin.HasRange() && s.Origin.MinX > s.Origin.MaxX {
		return errors.New(errors.ErrCodeInvalidConfig, "fan origin min_x %.1f exceeds max_x %.1f", s.Origin.MinX, s.Origin.MaxX)
	}
	return nil
}

// ParseArgs parses "key=value" arguments into a Config. Recognized keys:
// speed (milliseconds or a Go duration), easing, range, direction,
// translation, center, scatter, rotate, origin.x, origin.y, origin.minX,
// origin.maxX.
func ParseArgs(args []string) (Config, error) {
	var c Config
	origin := func() *Origin {
		if c.Origin == nil {
			c.Origin = &Origin{}
		}
		return c.Origin
	}
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return c, errors.New(errors.ErrCodeInvalidInput, "fan argument %q is not key=value", arg)
		}
		var err error
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "speed":
			c.Speed, err = parseDuration(val)
		case "easing":
			c.Easing = val
		case "range":
			c.Range, err = strconv.ParseFloat(val, 64)
		case "direction":
			c.Direction = Direction(strings.ToLower(val))
		case "translation":
			c.Translation, err = strconv.ParseFloat(val, 64)
		case "center":
			c.Center, err = parseBool(val)
		case "scatter":
			c.Scatter, err = parseBool(val)
		case "rotate":
			c.Rotate, err = parseBool(val)
		case "origin.x":
			origin().X, err = strconv.ParseFloat(val, 64)
		case "origin.y":
			origin().Y, err = strconv.ParseFloat(val, 64)
		case "origin.minx":
			origin().MinX, err = strconv.ParseFloat(val, 64)
		case "origin.maxx":
			origin().MaxX, err = strconv.ParseFloat(val, 64)
		default:
			return c, errors.New(errors.ErrCodeInvalidInput, "unknown fan argument %q", key)
		}
		if err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidInput, err, "fan argument %q", arg)
		}
	}
	return c, nil
}

func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

func parseBool(v string) (*bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
