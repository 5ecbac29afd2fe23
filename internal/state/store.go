package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/podcastr/internal/episodes"
)

// Snapshot represents the latest catalog available to the UI.
type Snapshot struct {
	Catalog             episodes.Catalog
	HasCatalog          bool
	LastUpdated         time.Time // last attempt, successful or not
	LastBuilt           time.Time // last successful build
	LastError           error
	ConsecutiveFailures int // Number of consecutive revalidation failures
}

// IsStale returns true when revalidation has failed several times in a row
// and the catalog on screen may be out of date.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Playlist returns the home screen playback order.
func (s Snapshot) Playlist() []episodes.Episode {
	return s.Catalog.Playlist()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored catalog. When err is non-nil the previous
// catalog is kept but the error is recorded for visibility.
func (s *Store) Update(catalog *episodes.Catalog, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = now
		s.snapshot.ConsecutiveFailures++
		return
	}

	if catalog != nil {
		s.snapshot.Catalog = cloneCatalog(*catalog)
		s.snapshot.HasCatalog = true
	} else {
		s.snapshot.Catalog = episodes.Catalog{}
		s.snapshot.HasCatalog = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = now
	s.snapshot.LastBuilt = now
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Catalog = cloneCatalog(s.snapshot.Catalog)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneCatalog(c episodes.Catalog) episodes.Catalog {
	return episodes.Catalog{
		Latest: cloneEpisodes(c.Latest),
		All:    cloneEpisodes(c.All),
	}
}

func cloneEpisodes(items []episodes.Episode) []episodes.Episode {
	if len(items) == 0 {
		return nil
	}
	dup := make([]episodes.Episode, len(items))
	copy(dup, items)
	return dup
}
