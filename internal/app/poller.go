package app

import (
	"context"
	"maps"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	statusTimeout       = 3 * time.Second
)

// invalidator drops cached pages; api.CachedSource implements it.
type invalidator interface {
	Invalidate()
}

// StartPoller launches a background goroutine that refreshes the store. After
// failures the wait doubles up to maxBackoff. When the API's record counts
// change, cache (if non-nil) is invalidated. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client api.StatusFetcher, cache invalidator, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client, cache, logger)
			timer.Reset(calculateBackoff(store.Failures(), interval))
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client api.StatusFetcher, cache invalidator, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	prev := store.Snapshot()

	status, err := client.FetchStatus(ctx)
	if err != nil {
		store.Update(nil, err)
		logger.Warn().Err(err).Int("failures", store.Failures()).Msg("status poll failed")
		return err
	}
	store.Update(status, nil)
	if cache != nil && prev.HasStatus && !maps.Equal(prev.Status.Resources, status.Resources) {
		cache.Invalidate()
		logger.Debug().Msg("record counts changed, page cache dropped")
	}
	logger.Debug().Str("version", status.Version).Msg("status poll ok")
	return nil
}
