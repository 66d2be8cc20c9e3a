// Package anim drives the visual transitions of a deck.
//
// The package never renders anything itself. A host implements [Surface]
// (a browser bridge, a terminal renderer, or the in-memory
// [MemorySurface]) and reports transition completion through the listener
// registered with [Surface.OnTransitionEnd]. The [Driver] on top of it
// implements the contract the deck engine relies on:
//
//   - Without transition support, styles apply synchronously and the
//     completion callback runs immediately.
//   - With support, the completion callback is registered for the next
//     completion signal of the target set, unregisters itself before it
//     runs, and the style change is applied after a short flush delay.
//   - A forced completion runs the callback right away, for target sets
//     that have nothing to animate.
//
// # Scheduling
//
// Deck execution is single-threaded and cooperative. Time-based work goes
// through a [Scheduler]: [Loop] runs callbacks on one goroutine in real
// time, [VirtualClock] runs them deterministically in virtual time for
// simulations and tests.
package anim
