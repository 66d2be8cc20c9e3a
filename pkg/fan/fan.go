package fan

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

// RNG supplies the jitter used by scattered fans.
type RNG interface {
	// Float64 returns a pseudo-random number in [0, 1).
	Float64() float64
}

// NewRNG returns a seeded PCG generator.
func NewRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Slot is one item's input to [Compute].
type Slot struct {
	ID       string
	Position int // 0 = top item, N-1 = bottom-most
}

// Placement is the computed geometry for one item.
type Placement struct {
	ID       string
	Position int

	// Step is the rotation angle in degrees, or the vertical offset in
	// pixels when rotation is disabled.
	Step float64
	// Translation is the horizontal offset in pixels.
	Translation float64

	// OriginX and OriginY are in percent. HasOrigin is false when rotation
	// is disabled and the current origin should be left alone.
	OriginX, OriginY float64
	HasOrigin        bool

	Rotate bool
}

// Transform renders the placement as a CSS-style transform.
func (p Placement) Transform() string {
	if p.Rotate {
		return fmt.Sprintf("translate(%spx) rotate(%sdeg)", num(p.Translation), num(p.Step))
	}
	return fmt.Sprintf("translate(%spx,%spx)", num(p.Translation), num(p.Step))
}

// IsIdentity reports whether transform leaves an item where it is: empty,
// "none", or a transform produced for a zero translation and step.
func IsIdentity(transform string) bool {
	switch transform {
	case "", "none", "translate(0px) rotate(0deg)", "translate(0px,0px)":
		return true
	}
	return false
}

// SameTransform reports whether a and b place an item identically.
func SameTransform(a, b string) bool {
	return a == b || (IsIdentity(a) && IsIdentity(b))
}

// TransformOrigin renders the origin as "x% y%".
func (p Placement) TransformOrigin() string {
	return fmt.Sprintf("%s%% %s%%", num(p.OriginX), num(p.OriginY))
}

func num(v float64) string {
	if v == 0 {
		return "0" // avoid "-0"
	}
	return fmt.Sprintf("%g", v)
}

// Compute lays out slots according to s. It needs at least two slots; a
// single item has no spread to distribute. rng may be nil when s.Scatter is
// false.
func Compute(slots []Slot, s Settings, rng RNG) ([]Placement, error) {
	n := len(slots)
	if n < 2 {
		return nil, errors.New(errors.ErrCodeTooFewItems, "fan needs at least 2 items, got %d", n)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Scatter && rng == nil {
		rng = NewRNG(uint64(n))
	}

	stepBase := s.Range / float64(n-1)
	stepTranslation := s.Translation / float64(n-1)
	start := s.Range
	if s.Center {
		start = s.Range / 2
	}
	left := s.Direction == Left

	out := make([]Placement, n)
	for i, slot := range slots {
		pos := slot.Position
		step := start - stepBase*float64(pos)
		translation := stepTranslation * float64(n-1-pos)

		if left {
			step = -step
			translation = -translation
		}

		if s.Scatter {
			extraStep := math.Floor(rng.Float64() * stepBase)
			extraTranslation := math.Floor(rng.Float64() * stepTranslation)
			if pos != n-1 {
				if left {
					step += extraStep
					translation -= extraTranslation
				} else {
					step -= extraStep
					translation += extraTranslation
				}
			}
		}

		p := Placement{
			ID:          slot.ID,
			Position:    pos,
			Step:        step,
			Translation: translation,
			Rotate:      s.Rotate,
		}
		if s.Rotate {
			p.HasOrigin = true
			p.OriginX, p.OriginY = originFor(pos, n, s)
		}
		out[i] = p
	}
	return out, nil
}

// originFor returns the transform origin of the item at pos. With an origin
// range, X moves from MinX towards MaxX as pos grows (mirrored for left).
func originFor(pos, n int, s Settings) (float64, float64) {
	o := s.Origin
	if !o.HasRange() {
		return o.X, o.Y
	}
	span := o.MaxX - o.MinX
	stepOrigin := span / float64(n)
	x := float64(pos)*(span+stepOrigin)/float64(n) + o.MinX
	if s.Direction == Left {
		x = o.MaxX + o.MinX - x
	}
	return x, o.Y
}
