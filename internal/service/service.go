// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// StandingsService exposes league-table use cases.
type StandingsService interface {
	// GetStandings fetches a fresh snapshot and recomputes tables. An empty
	// leagueID computes every league's table.
	GetStandings(ctx context.Context, leagueID string) (map[string][]model.StandingsEntry, error)
}

// AnalyticsService exposes the derived analytics views.
type AnalyticsService interface {
	// Generate fetches a full snapshot and computes all six derived views.
	Generate(ctx context.Context) (model.AnalyticsReport, error)
	// Revenue rolls up billing transactions into collected and pending totals.
	Revenue(ctx context.Context) (model.RevenueSummary, error)
	// StartSession opens a viewer session on a channel.
	StartSession(ctx context.Context, s model.ViewerSession) (model.ViewerSession, error)
	// EndSession closes an active viewer session.
	EndSession(ctx context.Context, id string) (model.ViewerSession, error)
}

// CatalogService exposes CRUD use cases over the managed collections.
type CatalogService interface {
	ListLeagues(ctx context.Context) ([]model.League, error)
	CreateLeague(ctx context.Context, l model.League) (model.League, error)
	DeleteLeague(ctx context.Context, id string) error

	ListTeams(ctx context.Context, leagueID string) ([]model.Team, error)
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	ListFixtures(ctx context.Context, leagueID string) ([]model.Fixture, error)
	CreateFixture(ctx context.Context, f model.Fixture) (model.Fixture, error)
	DeleteFixture(ctx context.Context, id string) error

	ListResults(ctx context.Context, leagueID string) ([]model.Result, error)
	CreateResult(ctx context.Context, r model.Result) (model.Result, error)
	DeleteResult(ctx context.Context, id string) error

	ListChannels(ctx context.Context) ([]model.Channel, error)
	CreateChannel(ctx context.Context, c model.Channel) (model.Channel, error)
	SetChannelLive(ctx context.Context, id string, live bool) (model.Channel, error)
	DeleteChannel(ctx context.Context, id string) error

	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
	CreateSubscription(ctx context.Context, s model.Subscription) (model.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (model.Subscription, error)

	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	SetTransactionStatus(ctx context.Context, id, status string) (model.Transaction, error)
}

// SeedService populates the store with demo analytics data.
type SeedService interface {
	SeedAnalytics(ctx context.Context) (SeedSummary, error)
}

// SeedSummary reports what a seeding run created.
type SeedSummary struct {
	Sessions        int `json:"sessions"`
	Comments        int `json:"comments"`
	Subscriptions   int `json:"subscriptions"`
	MatchPopularity int `json:"match_popularity"`
}

// ensure the repository snapshot types stay in reach of callers importing
// only the service package.
type (
	AnalyticsSnapshot = repository.AnalyticsSnapshot
	StandingsSnapshot = repository.StandingsSnapshot
)
