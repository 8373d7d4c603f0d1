package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

// Refresher keeps a cached copy of all league tables warm. Two triggers
// cause a recompute: a fixed interval, and a change in the number of result
// documents since the last refresh (a length comparison, not a diff).
//
// Refreshes never overlap. A trigger arriving while one is in flight marks
// it pending; the refresh loop runs once more afterwards, so any burst of
// triggers coalesces into a single extra recompute.
type Refresher struct {
	standings StandingsService
	results   repository.ResultRepository
	interval  time.Duration
	poll      time.Duration
	log       zerolog.Logger

	mu          sync.RWMutex
	tables      map[string][]model.StandingsEntry
	refreshedAt time.Time
	lastCount   int
	hasCount    bool

	flightMu sync.Mutex
	inFlight bool
	pending  bool
}

func NewRefresher(standings StandingsService, results repository.ResultRepository, interval, poll time.Duration, logger zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &Refresher{
		standings: standings,
		results:   results,
		interval:  interval,
		poll:      poll,
		log:       logger.With().Str("module", "service").Str("component", "refresher").Logger(),
	}
}

// Run blocks until ctx is done, refreshing on the interval ticker and on
// result-count changes. Call it once from a dedicated goroutine.
func (r *Refresher) Run(ctx context.Context) {
	// Warm the cache immediately so the first reader does not wait a full
	// interval.
	if err := r.Refresh(ctx); err != nil {
		r.log.Warn().Err(err).Msg("initial standings refresh failed")
	}

	ticker := time.NewTicker(r.interval)
	pollTicker := time.NewTicker(r.poll)
	defer ticker.Stop()
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.log.Warn().Err(err).Msg("scheduled standings refresh failed")
			}
		case <-pollTicker.C:
			r.pollCount(ctx)
		}
	}
}

// pollCount compares the result-document count against the last observed
// value and refreshes when it moved.
func (r *Refresher) pollCount(ctx context.Context) {
	count, err := r.results.Count(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("result count poll failed")
		return
	}

	r.mu.Lock()
	changed := !r.hasCount || count != r.lastCount
	r.lastCount = count
	r.hasCount = true
	r.mu.Unlock()

	if !changed {
		return
	}
	r.log.Debug().Int("results", count).Msg("result count changed, refreshing standings")
	if err := r.Refresh(ctx); err != nil {
		r.log.Warn().Err(err).Msg("count-triggered standings refresh failed")
	}
}

// Refresh recomputes every league table and swaps the cache. Concurrent
// calls coalesce: the loser marks the refresh pending and returns
// immediately while the in-flight call runs one extra round.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.flightMu.Lock()
	if r.inFlight {
		r.pending = true
		r.flightMu.Unlock()
		return nil
	}
	r.inFlight = true
	r.flightMu.Unlock()

	var lastErr error
	for {
		tables, err := r.standings.GetStandings(ctx, "")
		if err != nil {
			lastErr = err
		} else {
			r.mu.Lock()
			r.tables = tables
			r.refreshedAt = time.Now()
			r.mu.Unlock()
			lastErr = nil
		}

		r.flightMu.Lock()
		if r.pending {
			r.pending = false
			r.flightMu.Unlock()
			continue
		}
		r.inFlight = false
		r.flightMu.Unlock()
		return lastErr
	}
}

// Latest returns the cached tables and when they were computed. ok is false
// until the first successful refresh.
func (r *Refresher) Latest() (map[string][]model.StandingsEntry, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables, r.refreshedAt, r.tables != nil
}
