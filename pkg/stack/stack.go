package stack

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"

	"github.com/matzehuels/stackdeck/pkg/errors"
)

// DefaultBaseline is the lowest rank handed out to a deck item.
const DefaultBaseline = 1000

// Direction selects which way [Stack.Step] rotates the deck.
type Direction string

const (
	// Next brings the bottom-most item to the top.
	Next Direction = "next"
	// Prev sends the top item to the bottom.
	Prev Direction = "prev"
)

// Item is one deck element.
type Item struct {
	ID   string
	Rank int

	// Translation and Step are the decoration saved by the last fan
	// operation: horizontal offset and angle (or vertical offset).
	Translation float64
	Step        float64
}

// Stack is the ordered set of live items and their rank assignment.
type Stack struct {
	baseline int
	items    []*Item // document order
	index    map[string]*Item
}

// New creates a stack over ids in document order and assigns initial ranks.
// A baseline of zero selects [DefaultBaseline].
func New(ids []string, baseline int) (*Stack, error) {
	if baseline == 0 {
		baseline = DefaultBaseline
	}
	s := &Stack{
		baseline: baseline,
		index:    make(map[string]*Item, len(ids)),
	}
	for _, id := range ids {
		if err := errors.ValidateItemID(id); err != nil {
			return nil, err
		}
		if _, dup := s.index[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate item id %q", id)
		}
		it := &Item{ID: id}
		s.items = append(s.items, it)
		s.index[id] = it
	}
	s.AssignInitialRanks()
	return s, nil
}

// Len returns the number of live items.
func (s *Stack) Len() int { return len(s.items) }

// Baseline returns the minimum rank constant.
func (s *Stack) Baseline() int { return s.baseline }

// MaxRank returns the rank held by the top item.
func (s *Stack) MaxRank() int { return s.baseline + len(s.items) - 1 }

// Items returns the items in document order.
func (s *Stack) Items() []*Item { return slices.Clone(s.items) }

// IDs returns the item identifiers in document order.
func (s *Stack) IDs() []string {
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// Get returns the item with the given id.
func (s *Stack) Get(id string) (*Item, bool) {
	it, ok := s.index[id]
	return it, ok
}

// Contains reports whether id is a live item.
func (s *Stack) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// AssignInitialRanks gives document item i the rank baseline+N-1-i, so the
// first item starts on top.
func (s *Stack) AssignInitialRanks() {
	n := len(s.items)
	for i, it := range s.items {
		it.Rank = s.baseline + n - 1 - i
	}
}

// Top returns the item holding the maximum rank, or nil for an empty stack.
func (s *Stack) Top() *Item {
	var top *Item
	for _, it := range s.items {
		if top == nil || it.Rank > top.Rank {
			top = it
		}
	}
	return top
}

// Bottom returns the item holding the minimum rank, or nil for an empty stack.
func (s *Stack) Bottom() *Item {
	var bottom *Item
	for _, it := range s.items {
		if bottom == nil || it.Rank < bottom.Rank {
			bottom = it
		}
	}
	return bottom
}

// IsTop reports whether id currently holds the maximum rank.
func (s *Stack) IsTop(id string) bool {
	it, ok := s.index[id]
	return ok && it.Rank == s.MaxRank()
}

// Position returns the normalized fan position of id: 0 for the top item,
// N-1 for the bottom-most one. It returns -1 for unknown ids.
func (s *Stack) Position(id string) int {
	it, ok := s.index[id]
	if !ok {
		return -1
	}
	return s.MaxRank() - it.Rank
}

// Promote moves id to the top. Items ranked above it shift down one slot to
// close the gap. It returns false without changes when id is already on top.
func (s *Stack) Promote(id string) (bool, error) {
	it, ok := s.index[id]
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "item %q is not in the deck", id)
	}
	top := s.MaxRank()
	if it.Rank == top {
		return false, nil
	}
	old := it.Rank
	for _, other := range s.items {
		if other.Rank > old {
			other.Rank--
		}
	}
	it.Rank = top
	return true, nil
}

// Step rotates the deck by one position and returns the item that moved
// between extremes. Next moves the minimum-rank item to the top and shifts
// the rest down; Prev is its inverse. Step returns nil on an empty stack.
func (s *Stack) Step(dir Direction) *Item {
	if len(s.items) == 0 {
		return nil
	}
	switch dir {
	case Prev:
		moved := s.Top()
		for _, it := range s.items {
			if it != moved {
				it.Rank++
			}
		}
		moved.Rank = s.baseline
		return moved
	default:
		moved := s.Bottom()
		for _, it := range s.items {
			if it != moved {
				it.Rank--
			}
		}
		moved.Rank = s.MaxRank()
		return moved
	}
}

// OrderBy sorts the document order with cmp (stable) and reassigns ranks.
func (s *Stack) OrderBy(cmp func(a, b *Item) int) {
	slices.SortStableFunc(s.items, cmp)
	s.AssignInitialRanks()
}

var numericSuffix = regexp.MustCompile(`(\d+)\D*$`)

// OrderByNumericSuffix sorts items by the last run of digits in their id,
// so "set1-card10" sorts as 10. Trailing non-digits are allowed.
// If any id has no digits the stack is left untouched and an
// INVALID_IDENTIFIER error is returned.
func (s *Stack) OrderByNumericSuffix() error {
	keys := make(map[*Item]int, len(s.items))
	for _, it := range s.items {
		m := numericSuffix.FindStringSubmatch(it.ID)
		if m == nil {
			return errors.New(errors.ErrCodeInvalidIdentifier, "item id %q has no numeric suffix", it.ID)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidIdentifier, err, "item id %q", it.ID)
		}
		keys[it] = n
	}
	s.OrderBy(func(a, b *Item) int { return cmp.Compare(keys[a], keys[b]) })
	return nil
}

// Insert appends ids to the document order and re-ranks the deck. Ids that
// are already present are skipped; the ids actually added are returned. An
// invalid id rejects the whole call.
// Nothing is re-ranked when nothing was added.
func (s *Stack) Insert(ids ...string) ([]string, error) {
	for _, id := range ids {
		if err := errors.ValidateItemID(id); err != nil {
			return nil, err
		}
	}
	var added []string
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		it := &Item{ID: id}
		s.items = append(s.items, it)
		s.index[id] = it
		added = append(added, id)
	}
	if len(added) > 0 {
		s.AssignInitialRanks()
	}
	return added, nil
}

// Remove detaches ids from the deck and re-ranks the survivors. Unknown ids
// are ignored; the ids actually removed are returned. Nothing is re-ranked
// when nothing was removed.
func (s *Stack) Remove(ids ...string) []string {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			drop[id] = true
		}
	}
	var removed []string
	s.items = slices.DeleteFunc(s.items, func(it *Item) bool {
		if drop[it.ID] {
			removed = append(removed, it.ID)
			delete(s.index, it.ID)
			return true
		}
		return false
	})
	if len(removed) > 0 {
		s.AssignInitialRanks()
	}
	return removed
}

// Ranks returns a copy of the current rank assignment.
func (s *Stack) Ranks() map[string]int {
	out := make(map[string]int, len(s.items))
	for _, it := range s.items {
		out[it.ID] = it.Rank
	}
	return out
}

// ByRank returns the items ordered from top to bottom.
func (s *Stack) ByRank() []*Item {
	out := slices.Clone(s.items)
	slices.SortFunc(out, func(a, b *Item) int { return cmp.Compare(b.Rank, a.Rank) })
	return out
}

// Validate checks that ranks form the contiguous set
// [baseline, baseline+N-1] with no duplicates.
func (s *Stack) Validate() error {
	seen := make(map[int]string, len(s.items))
	for _, it := range s.items {
		if it.Rank < s.baseline || it.Rank > s.MaxRank() {
			return errors.New(errors.ErrCodeInternal, "item %q rank %d outside [%d, %d]", it.ID, it.Rank, s.baseline, s.MaxRank())
		}
		if other, dup := seen[it.Rank]; dup {
			return errors.New(errors.ErrCodeInternal, "items %q and %q share rank %d", other, it.ID, it.Rank)
		}
		seen[it.Rank] = it.ID
	}
	return nil
}
