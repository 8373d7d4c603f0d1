package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

// catalogService holds CRUD use-case logic for the managed collections:
// validation + orchestration, no transport or wire details.
type catalogService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func NewCatalogService(repos *repository.Repositories, logger zerolog.Logger) CatalogService {
	l := logger.With().Str("module", "service").Str("component", "catalog").Logger()
	return &catalogService{repos: repos, log: l}
}

func validName(name string) (string, []FieldError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return name, []FieldError{{Field: "name", Message: "must not be empty"}}
	}
	if ln := len([]rune(name)); ln < 2 || ln > 50 {
		return name, []FieldError{{Field: "name", Message: "length must be between 2 and 50"}}
	}
	return name, nil
}

func (s *catalogService) ListLeagues(ctx context.Context) ([]model.League, error) {
	return s.repos.Leagues.List(ctx)
}

func (s *catalogService) CreateLeague(ctx context.Context, l model.League) (model.League, error) {
	name, ferrs := validName(l.Name)
	if err := newInvalidInput(ferrs); err != nil {
		return model.League{}, err
	}
	l.Name = name
	out, err := s.repos.Leagues.Create(ctx, l)
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create league failed")
		return model.League{}, err
	}
	s.log.Info().Str("league_id", out.ID).Msg("league created")
	return out, nil
}

func (s *catalogService) DeleteLeague(ctx context.Context, id string) error {
	if id == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Leagues.Delete(ctx, id)
}

func (s *catalogService) ListTeams(ctx context.Context, leagueID string) ([]model.Team, error) {
	return s.repos.Teams.List(ctx, leagueID)
}

func (s *catalogService) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	name, ferrs := validName(t.Name)
	if t.LeagueID == "" {
		ferrs = append(ferrs, FieldError{Field: "league_id", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Team{}, err
	}
	t.Name = name
	out, err := s.repos.Teams.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create team failed")
		return model.Team{}, err
	}
	s.log.Info().Str("team_id", out.ID).Str("league_id", out.LeagueID).Msg("team created")
	return out, nil
}

func (s *catalogService) DeleteTeam(ctx context.Context, id string) error {
	if id == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Teams.Delete(ctx, id)
}

func (s *catalogService) ListFixtures(ctx context.Context, leagueID string) ([]model.Fixture, error) {
	return s.repos.Fixtures.List(ctx, leagueID)
}

func (s *catalogService) CreateFixture(ctx context.Context, f model.Fixture) (model.Fixture, error) {
	var ferrs []FieldError
	if f.LeagueID == "" {
		ferrs = append(ferrs, FieldError{Field: "league_id", Message: "must not be empty"})
	}
	if f.HomeTeamID == "" {
		ferrs = append(ferrs, FieldError{Field: "home_team_id", Message: "must not be empty"})
	}
	if f.AwayTeamID == "" {
		ferrs = append(ferrs, FieldError{Field: "away_team_id", Message: "must not be empty"})
	}
	if f.HomeTeamID != "" && f.HomeTeamID == f.AwayTeamID {
		ferrs = append(ferrs, FieldError{Field: "away_team_id", Message: "must differ from home team"})
	}
	if f.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be set"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Fixture{}, err
	}
	if f.Status == "" {
		f.Status = "scheduled"
	}
	return s.repos.Fixtures.Create(ctx, f)
}

func (s *catalogService) DeleteFixture(ctx context.Context, id string) error {
	if id == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Fixtures.Delete(ctx, id)
}

func (s *catalogService) ListResults(ctx context.Context, leagueID string) ([]model.Result, error) {
	return s.repos.Results.List(ctx, leagueID)
}

// CreateResult rejects malformed results before they can ever reach a
// standings fold; the engine itself only skips, never validates.
func (s *catalogService) CreateResult(ctx context.Context, r model.Result) (model.Result, error) {
	var ferrs []FieldError
	if r.FixtureID == "" {
		ferrs = append(ferrs, FieldError{Field: "fixture_id", Message: "must not be empty"})
	}
	if r.Fixture.LeagueID == "" {
		ferrs = append(ferrs, FieldError{Field: "fixture.league_id", Message: "must not be empty"})
	}
	if r.Fixture.HomeTeamID == "" || r.Fixture.AwayTeamID == "" {
		ferrs = append(ferrs, FieldError{Field: "fixture", Message: "must reference both teams"})
	}
	if r.HomeGoals < 0 {
		ferrs = append(ferrs, FieldError{Field: "home_goals", Message: "must be >= 0"})
	}
	if r.AwayGoals < 0 {
		ferrs = append(ferrs, FieldError{Field: "away_goals", Message: "must be >= 0"})
	}
	switch r.Status {
	case model.StatusFullTime, model.StatusHalfTime, model.StatusAbandoned:
	default:
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of full_time, half_time, abandoned"})
	}
	for _, g := range r.Goals {
		if g.Minute < 0 || g.Minute > 120 {
			ferrs = append(ferrs, FieldError{Field: "goals", Message: "minute out of range"})
			break
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Result{}, err
	}
	out, err := s.repos.Results.Create(ctx, r)
	if err != nil {
		s.log.Error().Err(err).Str("fixture_id", r.FixtureID).Msg("create result failed")
		return model.Result{}, err
	}
	s.log.Info().
		Str("result_id", out.ID).
		Int("home_goals", out.HomeGoals).
		Int("away_goals", out.AwayGoals).
		Msg("result recorded")
	return out, nil
}

func (s *catalogService) DeleteResult(ctx context.Context, id string) error {
	if id == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Results.Delete(ctx, id)
}

func (s *catalogService) ListChannels(ctx context.Context) ([]model.Channel, error) {
	return s.repos.Channels.List(ctx)
}

func (s *catalogService) CreateChannel(ctx context.Context, c model.Channel) (model.Channel, error) {
	name, ferrs := validName(c.Name)
	if err := newInvalidInput(ferrs); err != nil {
		return model.Channel{}, err
	}
	c.Name = name
	return s.repos.Channels.Create(ctx, c)
}

func (s *catalogService) SetChannelLive(ctx context.Context, id string, live bool) (model.Channel, error) {
	if id == "" {
		return model.Channel{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Channels.Update(ctx, id, map[string]any{"isLive": live})
}

func (s *catalogService) DeleteChannel(ctx context.Context, id string) error {
	if id == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Channels.Delete(ctx, id)
}

func (s *catalogService) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	return s.repos.Subscriptions.List(ctx)
}

func (s *catalogService) CreateSubscription(ctx context.Context, sub model.Subscription) (model.Subscription, error) {
	var ferrs []FieldError
	if sub.UserID == "" {
		ferrs = append(ferrs, FieldError{Field: "user_id", Message: "must not be empty"})
	}
	switch sub.PlanType {
	case model.PlanFree, model.PlanBasic, model.PlanPremium:
	default:
		ferrs = append(ferrs, FieldError{Field: "plan_type", Message: "must be one of free, basic, premium"})
	}
	if sub.Price.IsNegative() {
		ferrs = append(ferrs, FieldError{Field: "price", Message: "must be >= 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Subscription{}, err
	}
	if sub.Status == "" {
		sub.Status = model.SubPending
	}
	return s.repos.Subscriptions.Create(ctx, sub)
}

func (s *catalogService) CancelSubscription(ctx context.Context, id string) (model.Subscription, error) {
	if id == "" {
		return model.Subscription{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repos.Subscriptions.UpdateStatus(ctx, id, model.SubCancelled)
}

func (s *catalogService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.repos.Transactions.List(ctx)
}

func (s *catalogService) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	var ferrs []FieldError
	if t.UserID == "" {
		ferrs = append(ferrs, FieldError{Field: "user_id", Message: "must not be empty"})
	}
	if !t.Amount.IsPositive() {
		ferrs = append(ferrs, FieldError{Field: "amount", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Transaction{}, err
	}
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Type == "" {
		t.Type = "subscription"
	}
	start := time.Now()
	out, err := s.repos.Transactions.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", t.UserID).Msg("create transaction failed")
		return model.Transaction{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("transaction_id", out.ID).Msg("transaction created")
	return out, nil
}

func (s *catalogService) SetTransactionStatus(ctx context.Context, id, status string) (model.Transaction, error) {
	var ferrs []FieldError
	if id == "" {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must not be empty"})
	}
	switch status {
	case "pending", "completed", "failed":
	default:
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of pending, completed, failed"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Transaction{}, err
	}
	return s.repos.Transactions.UpdateStatus(ctx, id, status)
}
