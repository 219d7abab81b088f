// Package broadcast propagates logout between browsing contexts that share
// the same persistent store.
//
// The underlying mechanism is a storage mutation event: one context writes a
// transient marker key, sibling contexts observe the mutation and log out
// locally, and the writer removes the marker shortly after. Here the same
// contract is kept behind a small Channel interface; the store-backed
// implementation watches the marker key by polling, since separate processes
// sharing a sqlite file have no event bus of their own.
package broadcast

import "context"

// Channel announces a logout to sibling contexts and reports logouts
// announced by them. Notifications never include this context's own
// announcements, so reacting to one with a local (non-broadcast) logout
// cannot loop.
type Channel interface {
	// Publish writes the transient logout marker for siblings to observe.
	// The marker is removed again after a short linger.
	Publish(ctx context.Context) error

	// Notifications delivers one value per marker observed from a sibling
	// context. The channel is closed by Close.
	Notifications() <-chan struct{}

	// Close stops watching and releases resources.
	Close() error
}
