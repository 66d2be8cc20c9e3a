// Package fan computes the geometry of a fanned-out card deck.
//
// Given each item's fan position and a resolved [Settings], [Compute]
// returns one [Placement] per item: a rotation angle (or vertical offset
// when rotation is disabled), a horizontal translation, and an optional
// transform origin.
//
// # Positions
//
// Position 0 is the top item and N-1 the bottom-most one. With Center
// disabled the top item receives the full Range and the bottom item zero;
// with Center enabled the spread is split symmetrically, so for an odd N the
// middle item sits at exactly zero degrees.
//
// # Configuration and defaults
//
// [Config] is the request form used by callers: tri-state booleans are
// pointers and numeric fields may be left at zero. [Resolve] fills unset
// fields from [DefaultSettings]. Zero numeric values and empty strings count
// as unset, so a zero range or zero speed cannot be requested; this mirrors
// the behavior the widget has always had.
//
// # Determinism
//
// With Scatter disabled, Compute is a pure function of its inputs. Scatter
// draws jitter from the supplied [RNG]; pass [NewRNG] with a fixed seed to
// make scattered fans reproducible.
package fan
