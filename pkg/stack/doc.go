// Package stack holds the depth-rank model of a card deck.
//
// A [Stack] owns N items in document order and assigns each a unique rank in
// the contiguous range [baseline, baseline+N-1]. The item holding the maximum
// rank is the top (frontmost) item. Ranks are authoritative application data:
// render layers receive them as a projection (for example a z-index) and the
// stack never reads them back.
//
// # Operations
//
//   - [Stack.AssignInitialRanks]: first document item on top
//   - [Stack.Promote]: move one item to the top, closing the gap it leaves
//   - [Stack.Step]: rotate the deck by one position in either direction
//   - [Stack.OrderBy], [Stack.OrderByNumericSuffix]: reorder document order
//   - [Stack.Insert], [Stack.Remove]: change the live set and re-rank
//
// Every mutating operation leaves the rank set contiguous and unique;
// [Stack.Validate] checks that invariant and is used heavily in tests.
//
// A Stack is not safe for concurrent use. The deck engine mutates it from a
// single goroutine only.
package stack
