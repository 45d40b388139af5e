// Package core implements the offline-first cache policies on top of the
// persistent store manager: the cache-aside read path, the deferred
// mutation queue with its sync pass, eviction and quota bounding, and
// snapshot export/import.
package core

// AlwaysOnline is a connectivity signal for callers that have no real
// probe. The reader only uses the signal to gate network fetches.
func AlwaysOnline() bool { return true }

// AlwaysOffline forces every read to be served from cache only.
func AlwaysOffline() bool { return false }
