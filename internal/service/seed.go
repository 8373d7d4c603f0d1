package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

var (
	seedDeviceTypes = []string{"desktop", "mobile", "tablet"}
	seedLocations   = []string{"Harare", "Bulawayo", "Mutare", "Gweru", "Masvingo"}
)

// seedService writes demo analytics data into the store so a fresh
// deployment has something to chart. It is additive; existing documents
// are left alone.
type seedService struct {
	repos *repository.Repositories
	rand  *rand.Rand
	log   zerolog.Logger
}

func NewSeedService(repos *repository.Repositories, logger zerolog.Logger) SeedService {
	l := logger.With().Str("module", "service").Str("component", "seed").Logger()
	return &seedService{
		repos: repos,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   l,
	}
}

func (s *seedService) SeedAnalytics(ctx context.Context) (SeedSummary, error) {
	var summary SeedSummary

	channels, err := s.repos.Channels.List(ctx)
	if err != nil {
		return summary, err
	}
	fixtures, err := s.repos.Fixtures.List(ctx, "")
	if err != nil {
		return summary, err
	}
	teams, err := s.repos.Teams.List(ctx, "")
	if err != nil {
		return summary, err
	}

	for _, ch := range channels {
		n := s.rand.Intn(50) + 10
		for i := 0; i < n; i++ {
			session := s.randomSession(ch.ID)
			if _, err := s.repos.Sessions.Create(ctx, session); err != nil {
				s.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("seed session create failed")
				continue
			}
			summary.Sessions++
		}

		m := s.rand.Intn(30) + 5
		for i := 0; i < m; i++ {
			comment := model.Comment{
				ChannelID:        ch.ID,
				UserID:           fmt.Sprintf("user_%d", s.rand.Intn(200)),
				Content:          "⚽",
				ModerationStatus: "approved",
			}
			if _, err := s.repos.Comments.Create(ctx, comment); err != nil {
				s.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("seed comment create failed")
				continue
			}
			summary.Comments++
		}
	}

	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return summary, err
	}
	planPrices := map[string]decimal.Decimal{
		model.PlanFree:    decimal.Zero,
		model.PlanBasic:   decimal.NewFromFloat(4.99),
		model.PlanPremium: decimal.NewFromFloat(9.99),
	}
	plans := []string{model.PlanFree, model.PlanBasic, model.PlanPremium}
	for _, u := range users {
		plan := plans[s.rand.Intn(len(plans))]
		sub := model.Subscription{
			UserID:   u.ID,
			PlanType: plan,
			Status:   model.SubActive,
			Price:    planPrices[plan],
		}
		if _, err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
			s.log.Warn().Err(err).Str("user_id", u.ID).Msg("seed subscription create failed")
			continue
		}
		summary.Subscriptions++
	}

	namesByID := make(map[string]string, len(teams))
	for _, t := range teams {
		namesByID[t.ID] = t.Name
	}
	limit := len(fixtures)
	if limit > 20 {
		limit = 20
	}
	for _, fx := range fixtures[:limit] {
		home, homeOK := namesByID[fx.HomeTeamID]
		away, awayOK := namesByID[fx.AwayTeamID]
		if !homeOK || !awayOK {
			continue
		}

		totalViewers := s.rand.Intn(10000) + 1000
		totalComments := s.rand.Intn(500) + 50
		pop := model.MatchPopularity{
			MatchID:         fx.ID,
			HomeTeam:        home,
			AwayTeam:        away,
			TotalViewers:    totalViewers,
			PeakViewers:     totalViewers + s.rand.Intn(2000),
			AverageViewTime: s.rand.Intn(5400) + 600,
			TotalComments:   totalComments,
			EngagementScore: float64(totalComments) / float64(totalViewers) * 100,
			Date:            fx.Date,
		}
		if _, err := s.repos.MatchPopularity.Create(ctx, pop); err != nil {
			s.log.Warn().Err(err).Str("fixture_id", fx.ID).Msg("seed popularity create failed")
			continue
		}
		summary.MatchPopularity++
	}

	s.log.Info().
		Int("sessions", summary.Sessions).
		Int("comments", summary.Comments).
		Int("subscriptions", summary.Subscriptions).
		Int("match_popularity", summary.MatchPopularity).
		Msg("analytics seed completed")
	return summary, nil
}

func (s *seedService) randomSession(channelID string) model.ViewerSession {
	start := time.Now().Add(-time.Duration(s.rand.Intn(24*3600)) * time.Second)
	session := model.ViewerSession{
		ChannelID:  channelID,
		UserID:     fmt.Sprintf("user_%d", s.rand.Intn(1000)),
		StartTime:  start,
		IsActive:   s.rand.Float64() > 0.3,
		DeviceType: seedDeviceTypes[s.rand.Intn(len(seedDeviceTypes))],
		Location:   seedLocations[s.rand.Intn(len(seedLocations))],
	}
	if !session.IsActive {
		duration := s.rand.Intn(7200) + 300
		end := start.Add(time.Duration(duration) * time.Second)
		session.Duration = &duration
		session.EndTime = &end
	}
	return session
}
