package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/podcastr/internal/episodes"
	"github.com/five82/podcastr/internal/state"
)

const (
	defaultRefreshInterval = 8 * time.Hour
	retryBase              = 2 * time.Second
	maxBackoff             = 30 * time.Second
)

// Refresher rebuilds the home catalog from the episode source.
type Refresher struct {
	Source      episodes.Source
	Store       *state.Store
	Query       episodes.Query
	LatestCount int
	Formatter   episodes.Formatter
}

// Build fetches, formats and splits one page of episodes. Any malformed
// record fails the whole build.
func (r *Refresher) Build(ctx context.Context) (episodes.Catalog, error) {
	raws, err := r.Source.FetchEpisodes(ctx, r.Query)
	if err != nil {
		return episodes.Catalog{}, fmt.Errorf("fetch episodes: %w", err)
	}
	list, err := r.Formatter.FormatAll(raws)
	if err != nil {
		return episodes.Catalog{}, fmt.Errorf("format episodes: %w", err)
	}
	return episodes.BuildCatalog(list, r.LatestCount), nil
}

// Refresh builds the catalog and records the outcome in the store. On
// failure the store keeps the previous catalog.
func (r *Refresher) Refresh(ctx context.Context) error {
	catalog, err := r.Build(ctx)
	if err != nil {
		r.Store.Update(nil, err)
		return err
	}
	r.Store.Update(&catalog, nil)
	logrus.WithFields(logrus.Fields{
		"latest": len(catalog.Latest),
		"all":    len(catalog.All),
	}).Info("catalog rebuilt")
	return nil
}

// StartPoller launches a background goroutine that revalidates the catalog
// every interval. After a failure it retries sooner, backing off up to
// maxBackoff. The returned function requests an immediate revalidation; it
// never blocks.
func StartPoller(ctx context.Context, r *Refresher, interval time.Duration) (refreshNow func()) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	trigger := make(chan struct{}, 1)

	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-trigger:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}

			wait := interval
			if err := r.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				wait = calculateBackoff(failures, retryBase)
				failures++
				logrus.WithError(err).WithFields(logrus.Fields{
					"failures": failures,
					"retry_in": wait,
				}).Warn("catalog revalidation failed")
			} else {
				failures = 0
			}
			timer.Reset(wait)
		}
	}()

	return func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
}

// calculateBackoff doubles base once per prior failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
