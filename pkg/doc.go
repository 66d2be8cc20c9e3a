// Package pkg provides the core libraries for Stackdeck, an animated card deck.
//
// # Overview
//
// A deck is a stack of items with a contiguous rank per item. The item with
// the highest rank is on top. Operations animate the items through a host
// surface: the deck steps forward and back, fans out, closes, reorders, and
// grows or shrinks, one operation at a time.
//
// The pkg directory is organized into three areas:
//
//  1. Engine - [stack], [fan], [dispatch], [deck]
//  2. Host - [anim] surfaces, schedulers and event loops
//  3. Infrastructure - [config], [cache], [render], [server], [observability]
//
// # Architecture
//
// The typical flow of one operation:
//
//	deck.Invoke("next")
//	         ↓
//	    [dispatch] (start now, queue, or reject)
//	         ↓
//	    [deck] (close, then run the operation)
//	         ↓
//	    [anim] driver (apply styles, wait for the transition)
//	         ↓
//	    [stack] (reassign ranks, notify subscribers)
//
// # Quick Start
//
// Run a deck on a virtual clock:
//
//	clock := anim.NewVirtualClock()
//	surface := anim.NewMemorySurface(clock)
//	d, _ := deck.New(surface, clock, []string{"A", "B", "C", "D"}, deck.Options{})
//
//	d.Next(false)
//	clock.RunUntilIdle(time.Minute)
//	fmt.Println(d.ByRank()) // [D A B C]
//
// # Main Packages
//
// [stack] - Rank assignment: promote, step, reorder, insert and remove while
// keeping ranks contiguous.
//
// [fan] - Fan geometry. Computes the translation, rotation and transform
// origin of every item from a fan request.
//
// [dispatch] - Serializes operations through an idle/animating state machine
// with a FIFO queue.
//
// [deck] - The widget: operations, the Invoke command surface, events,
// snapshots and subscriptions.
//
// [anim] - Surfaces, transition drivers and schedulers. The virtual clock
// drives tests and the terminal; the event loop drives the HTTP service.
//
// [cache] - Snapshot storage over file, Redis and MongoDB backends.
//
// [render] - SVG previews of fans, Graphviz diagrams of the stacking order,
// and PDF/PNG conversion.
//
// [server] - HTTP service with one event loop per deck.
//
// [observability] - Hooks for deck, store and HTTP metrics, with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test -short ./pkg/...   # Skip Graphviz rendering
//	go test -run Example       # Examples only
//
// STACKDECK_TEST_REDIS and STACKDECK_TEST_MONGO enable the network store tests.
//
// [stack]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/stack
// [fan]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/fan
// [dispatch]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/dispatch
// [deck]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/deck
// [anim]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/anim
// [config]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackdeck/pkg/observability
package pkg
