// Package store provides the persistent key-value store shared by all
// browsing contexts: user records, the active session and the cross-context
// logout marker all live here under well-known keys.
//
// The store is best effort. There is no locking across contexts; concurrent
// writers can overwrite each other (last write wins), and callers are
// expected to degrade gracefully when the store is unavailable.
package store

import "context"

// Well-known keys.
const (
	KeyAuthData = "auth_data"
	KeyUsers    = "users"
	KeyLogout   = "auth_logout"
)

// LogoutMarker is the value written under KeyLogout to signal a logout to
// sibling contexts.
const LogoutMarker = "logout"

// KV is a minimal key-value store. Get returns (nil, nil) when the key is
// absent. Delete of an absent key is a no-op.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
