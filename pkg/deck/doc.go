// Package deck implements the card-deck widget controller.
//
// A [Deck] owns a [stack.Stack] (the authoritative rank assignment), an
// [anim.Driver] that animates an [anim.Surface], and a
// [dispatch.Dispatcher] that serializes every operation. Public entry
// points never block and never return errors for degenerate input: they
// dispatch work, log diagnostics and return.
//
// Ranks flow one way. After every rank change the deck writes each item's
// rank to the surface as "z-index"; nothing is ever read back.
//
// # Threading
//
// A Deck is not safe for concurrent use. It belongs to the goroutine that
// runs its scheduler: an [anim.Loop] in real time, or an
// [anim.VirtualClock] in simulations and tests. Other goroutines reach it
// through Loop.Do.
//
// # Commands
//
// [Invoke] routes string method names, as typed by a user or received by
// the HTTP service, to deck calls.
package deck
