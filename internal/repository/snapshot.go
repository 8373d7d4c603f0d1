package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAnalytics materializes the full analytics input set. The eight
// collection fetches fan out in parallel and the first failure cancels the
// rest; a partial snapshot is never returned.
func (r *Repositories) FetchAnalytics(ctx context.Context) (AnalyticsSnapshot, error) {
	var snap AnalyticsSnapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Channels, err = r.Channels.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Sessions, err = r.Sessions.List(ctx, SessionFilter{})
		return err
	})
	g.Go(func() (err error) {
		snap.Subscriptions, err = r.Subscriptions.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Users, err = r.Users.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Fixtures, err = r.Fixtures.List(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Teams, err = r.Teams.List(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Comments, err = r.Comments.List(ctx, CommentFilter{})
		return err
	})
	g.Go(func() (err error) {
		snap.MatchPopularity, err = r.MatchPopularity.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return AnalyticsSnapshot{}, err
	}
	return snap, nil
}

// FetchStandings materializes the standings input set: results (optionally
// narrowed to one league) and the team universe for name resolution.
func (r *Repositories) FetchStandings(ctx context.Context, leagueID string) (StandingsSnapshot, error) {
	var snap StandingsSnapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Results, err = r.Results.List(ctx, leagueID)
		return err
	})
	g.Go(func() (err error) {
		snap.Teams, err = r.Teams.List(ctx, "")
		return err
	})

	if err := g.Wait(); err != nil {
		return StandingsSnapshot{}, err
	}
	return snap, nil
}
