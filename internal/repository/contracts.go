// Package repository maps the hosted backend's raw documents onto domain
// models. Decode-side validation lives here: a document that fails its
// checks is skipped with a warning so one bad record never sinks a whole
// standings or analytics run.
package repository

import (
	"context"

	"github.com/zimstream/stream-ops-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LeagueRepository declares persistence operations for leagues.
type LeagueRepository interface {
	List(ctx context.Context) ([]model.League, error)
	Create(ctx context.Context, l model.League) (model.League, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.League, error)
	Delete(ctx context.Context, id string) error
}

// TeamRepository declares persistence operations for teams.
// List orders by name ascending, matching the dashboard's display order.
type TeamRepository interface {
	List(ctx context.Context, leagueID string) ([]model.Team, error)
	Create(ctx context.Context, t model.Team) (model.Team, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Team, error)
	Delete(ctx context.Context, id string) error
}

// FixtureRepository declares persistence operations for fixtures.
type FixtureRepository interface {
	List(ctx context.Context, leagueID string) ([]model.Fixture, error)
	Create(ctx context.Context, f model.Fixture) (model.Fixture, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Fixture, error)
	Delete(ctx context.Context, id string) error
}

// ResultRepository declares persistence operations for match results.
// Count backs the standings refresher's cheap change trigger.
type ResultRepository interface {
	List(ctx context.Context, leagueID string) ([]model.Result, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, r model.Result) (model.Result, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Result, error)
	Delete(ctx context.Context, id string) error
}

// ChannelRepository declares persistence operations for broadcast channels.
type ChannelRepository interface {
	List(ctx context.Context) ([]model.Channel, error)
	Create(ctx context.Context, c model.Channel) (model.Channel, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Channel, error)
	Delete(ctx context.Context, id string) error
}

// SessionFilter narrows a viewer-session listing.
type SessionFilter struct {
	ChannelID string
	IsActive  *bool
}

// ViewerSessionRepository declares persistence operations for viewer sessions.
type ViewerSessionRepository interface {
	List(ctx context.Context, f SessionFilter) ([]model.ViewerSession, error)
	Create(ctx context.Context, s model.ViewerSession) (model.ViewerSession, error)
	// End closes an active session: sets the end time, clears the active
	// flag and records the elapsed duration in seconds.
	End(ctx context.Context, id string, durationSec int) (model.ViewerSession, error)
}

// SubscriptionRepository declares persistence operations for subscriptions.
type SubscriptionRepository interface {
	List(ctx context.Context) ([]model.Subscription, error)
	Create(ctx context.Context, s model.Subscription) (model.Subscription, error)
	UpdateStatus(ctx context.Context, id, status string) (model.Subscription, error)
}

// CommentFilter narrows a comment listing.
type CommentFilter struct {
	ChannelID string
	MatchID   string
}

// CommentRepository declares persistence operations for channel comments.
type CommentRepository interface {
	List(ctx context.Context, f CommentFilter) ([]model.Comment, error)
	Create(ctx context.Context, c model.Comment) (model.Comment, error)
	UpdateModeration(ctx context.Context, id, status string) (model.Comment, error)
}

// MatchPopularityRepository declares persistence operations for the
// precomputed per-match popularity records.
type MatchPopularityRepository interface {
	List(ctx context.Context) ([]model.MatchPopularity, error)
	Create(ctx context.Context, p model.MatchPopularity) (model.MatchPopularity, error)
}

// UserRepository declares read operations over dashboard users.
type UserRepository interface {
	List(ctx context.Context) ([]model.AppUser, error)
}

// TransactionRepository declares persistence operations for billing
// transactions.
type TransactionRepository interface {
	List(ctx context.Context) ([]model.Transaction, error)
	Create(ctx context.Context, t model.Transaction) (model.Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) (model.Transaction, error)
}

// AnalyticsSnapshot is the fully-materialized set of records one analytics
// run consumes. Missing collections are always empty slices, never nil
// pointers into a half-fetched state.
type AnalyticsSnapshot struct {
	Channels        []model.Channel
	Sessions        []model.ViewerSession
	Subscriptions   []model.Subscription
	Users           []model.AppUser
	Fixtures        []model.Fixture
	Teams           []model.Team
	Comments        []model.Comment
	MatchPopularity []model.MatchPopularity
}

// StandingsSnapshot is the input set for one standings computation.
type StandingsSnapshot struct {
	Results []model.Result
	Teams   []model.Team
}

// SnapshotFetcher materializes consistent input sets for the reducers.
// Fetches fan out in parallel and fail fast: the reducers are never invoked
// over a partial snapshot.
type SnapshotFetcher interface {
	FetchAnalytics(ctx context.Context) (AnalyticsSnapshot, error)
	FetchStandings(ctx context.Context, leagueID string) (StandingsSnapshot, error)
}
