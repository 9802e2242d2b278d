// Package history provides SQLite-based persistence for past resolutions.
//
// The store is an append-only audit log. It records what was asked, what
// came back, and how long it took. It is never read during resolution:
// every query hits the live providers, so stale stored answers cannot be
// served as fresh results.
package history
