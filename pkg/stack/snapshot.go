package stack

import (
	"github.com/matzehuels/stackdeck/pkg/errors"
)

// Snapshot is the serializable state of a stack.
type Snapshot struct {
	Baseline int            `json:"baseline"`
	Order    []string       `json:"order"` // document order
	Ranks    map[string]int `json:"ranks"`
}

// Snapshot captures the document order and rank assignment.
func (s *Stack) Snapshot() Snapshot {
	return Snapshot{
		Baseline: s.baseline,
		Order:    s.IDs(),
		Ranks:    s.Ranks(),
	}
}

// FromSnapshot rebuilds a stack. The snapshot must describe a valid
// contiguous rank assignment; otherwise an error is returned.
func FromSnapshot(snap Snapshot) (*Stack, error) {
	s, err := New(snap.Order, snap.Baseline)
	if err != nil {
		return nil, err
	}
	if len(snap.Ranks) == 0 {
		return s, nil
	}
	for _, it := range s.items {
		r, ok := snap.Ranks[it.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot has no rank for %q", it.ID)
		}
		it.Rank = r
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot ranks are not contiguous")
	}
	return s, nil
}
