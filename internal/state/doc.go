// Package state shares the episode catalog between the revalidation poller
// and the UI.
//
// # Overview
//
// The poller builds a new catalog every revalidation interval and hands it
// to Store.Update. The UI reads Store.Snapshot on its own tick and renders
// whatever it gets. The two sides run on different goroutines; the Store is
// the only place they meet.
//
//	Producer (poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchEpisodes()│            │                 │
//	│ FormatAll()    │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│ wait interval  │            │  render home    │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success: replace the catalog
//	store.Update(&catalog, nil)
//	→ snapshot.Catalog = catalog
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the previous catalog, record the error
//	store.Update(nil, err)
//	→ snapshot.Catalog unchanged
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Keeping the last good catalog on failure matches a statically built page
// that keeps being served while regeneration fails. IsStale reports two or
// more failures in a row so the header can warn about it.
//
// # Copy Semantics
//
// Snapshot returns deep copies of the episode slices and wraps the error so
// callers can keep a snapshot across ticks without racing the poller.
//
// The player state is deliberately not kept here: it lives on the UI event
// loop (see package player) and never crosses goroutines.
package state
