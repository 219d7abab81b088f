// Package cli provides the interactive AtlasInfo command-line client.
//
// It wires configuration, the local store, the session manager and the
// catalog clients into an interactive REPL. Typical flow: log in, browse
// countries, weather and creatures, log out. Admins can additionally manage
// user accounts via an interactive panel.
//
// Key features:
//   - Login / Register / Logout with a persisted session
//   - Automatic logout after a period of inactivity
//   - Logout propagation to sibling processes sharing the store
//   - Country, weather and creature lookups
//   - User management for admins (list, block, password reset)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
