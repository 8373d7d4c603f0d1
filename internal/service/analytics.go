package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

// The analytics reducers are pure functions over an already-materialized
// snapshot. Each run replaces the previous derived state wholesale; no
// accumulator outlives a call.

// growthWindowDays is the length of the subscription growth series:
// the last 30 calendar days inclusive of today.
const growthWindowDays = 30

// engagementWindowHours is the fixed divisor for comments-per-hour. It is a
// simplifying assumption (a nominal 24h day), not the channel's actual
// observation window.
const engagementWindowHours = 24

// topCommenterLimit caps the per-channel top commenter list.
const topCommenterLimit = 5

// ComputeChannelViewers derives per-channel viewership stats.
//
// Peak viewers is approximated as the end-state active count rather than a
// true time-windowed maximum; computing the real peak would need an interval
// sweep over retained session start/end pairs.
func ComputeChannelViewers(channels []model.Channel, sessions []model.ViewerSession) []model.ChannelViewers {
	out := make([]model.ChannelViewers, 0, len(channels))
	for _, ch := range channels {
		var active, total int
		var durSum, durCount int
		for _, s := range sessions {
			if s.ChannelID != ch.ID {
				continue
			}
			total++
			if s.IsActive {
				active++
			}
			if s.Duration != nil {
				durSum += *s.Duration
				durCount++
			}
		}

		peak := 0
		if total > 0 {
			peak = active
		}
		avg := 0.0
		if durCount > 0 {
			// Active sessions have no duration yet; they are excluded from
			// the average, not counted as zero.
			avg = float64(durSum) / float64(durCount)
		}

		out = append(out, model.ChannelViewers{
			ChannelID:       ch.ID,
			ChannelName:     ch.Name,
			CurrentViewers:  active,
			PeakViewers:     peak,
			TotalViews:      total,
			AverageViewTime: avg,
		})
	}
	return out
}

// ComputeSubscriptionGrowth derives the cumulative 30-day series, oldest day
// first. Each day's totals include every subscription created on or before
// that day; the series is cumulative, not a daily delta.
func ComputeSubscriptionGrowth(subscriptions []model.Subscription, now time.Time) []model.SubscriptionGrowth {
	out := make([]model.SubscriptionGrowth, 0, growthWindowDays)
	today := now.UTC()

	for i := growthWindowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		point := model.SubscriptionGrowth{Date: date}

		for _, sub := range subscriptions {
			created := sub.CreatedAt.UTC().Format("2006-01-02")
			if created > date {
				continue
			}
			point.TotalSubscriptions++
			switch sub.PlanType {
			case model.PlanFree:
				point.FreeSubscriptions++
			case model.PlanBasic:
				point.BasicSubscriptions++
			case model.PlanPremium:
				point.PremiumSubscriptions++
			}
		}
		out = append(out, point)
	}
	return out
}

// ComputeTeamPopularity aggregates precomputed match popularity records per
// team. The join is by team display name (the popularity records carry
// names, not ids), which misattributes matches if two teams share a name.
func ComputeTeamPopularity(teams []model.Team, popularity []model.MatchPopularity) []model.TeamPopularity {
	out := make([]model.TeamPopularity, 0, len(teams))
	for _, team := range teams {
		entry := model.TeamPopularity{TeamID: team.ID, TeamName: team.Name}
		var scoreSum float64
		for _, m := range popularity {
			if m.HomeTeam != team.Name && m.AwayTeam != team.Name {
				continue
			}
			entry.TotalMatches++
			entry.TotalViewers += m.TotalViewers
			entry.TotalComments += m.TotalComments
			scoreSum += m.EngagementScore
		}
		if entry.TotalMatches > 0 {
			entry.AverageViewersPerMatch = float64(entry.TotalViewers) / float64(entry.TotalMatches)
			// Mean of the precomputed per-match scores, not recomputed from
			// raw comments.
			entry.EngagementScore = scoreSum / float64(entry.TotalMatches)
		}
		out = append(out, entry)
	}
	return out
}

// ComputeChannelEngagement derives per-channel comment activity. Every
// comment counts regardless of moderation status.
func ComputeChannelEngagement(channels []model.Channel, comments []model.Comment) []model.ChannelEngagement {
	out := make([]model.ChannelEngagement, 0, len(channels))
	for _, ch := range channels {
		var total int
		counts := make(map[string]int)
		commenters := make([]string, 0) // first-encounter order
		for _, cm := range comments {
			if cm.ChannelID != ch.ID {
				continue
			}
			total++
			if _, seen := counts[cm.UserID]; !seen {
				commenters = append(commenters, cm.UserID)
			}
			counts[cm.UserID]++
		}

		// Stable sort keeps encounter order among equal counts.
		top := make([]string, len(commenters))
		copy(top, commenters)
		sort.SliceStable(top, func(i, j int) bool {
			return counts[top[i]] > counts[top[j]]
		})
		if len(top) > topCommenterLimit {
			top = top[:topCommenterLimit]
		}

		rate := 0.0
		if len(commenters) > 0 {
			rate = float64(total) / float64(len(commenters))
		}

		out = append(out, model.ChannelEngagement{
			ChannelID:            ch.ID,
			ChannelName:          ch.Name,
			TotalComments:        total,
			ActiveCommenters:     len(commenters),
			AverageCommentsPerHr: float64(total) / float64(engagementWindowHours),
			EngagementRate:       rate,
			TopCommenterIDs:      top,
		})
	}
	return out
}

// ComputeOverview derives the dashboard KPI record from the full snapshot.
func ComputeOverview(snap repository.AnalyticsSnapshot) model.AnalyticsOverview {
	overview := model.AnalyticsOverview{
		TotalSubscriptions: len(snap.Subscriptions),
		TotalMatches:       len(snap.Fixtures),
		TotalComments:      len(snap.Comments),
		TotalRevenue:       decimal.Zero,
	}

	var durSum, durCount int
	for _, s := range snap.Sessions {
		if s.IsActive {
			overview.TotalViewers++
		}
		if s.Duration != nil {
			durSum += *s.Duration
			durCount++
		}
	}
	if durCount > 0 {
		overview.AverageViewTime = float64(durSum) / float64(durCount)
	}

	var paid, cancelled int
	for _, sub := range snap.Subscriptions {
		if sub.Status == model.SubActive {
			overview.TotalRevenue = overview.TotalRevenue.Add(sub.Price)
		}
		if sub.PlanType != model.PlanFree {
			paid++
		}
		if sub.Status == model.SubCancelled {
			cancelled++
		}
	}

	if users := len(snap.Users); users > 0 {
		overview.ConversionRate = float64(paid) / float64(users) * 100
	}
	if total := len(snap.Subscriptions); total > 0 {
		overview.ChurnRate = float64(cancelled) / float64(total) * 100
	}
	return overview
}

// ComputeReport runs every reducer over one snapshot.
func ComputeReport(snap repository.AnalyticsSnapshot, now time.Time) model.AnalyticsReport {
	return model.AnalyticsReport{
		ChannelViewers:     ComputeChannelViewers(snap.Channels, snap.Sessions),
		SubscriptionGrowth: ComputeSubscriptionGrowth(snap.Subscriptions, now),
		TeamPopularity:     ComputeTeamPopularity(snap.Teams, snap.MatchPopularity),
		ChannelEngagement:  ComputeChannelEngagement(snap.Channels, snap.Comments),
		MatchPopularity:    snap.MatchPopularity,
		Overview:           ComputeOverview(snap),
	}
}

// ComputeRevenue rolls transaction records up into collected and pending
// totals. Decimal arithmetic throughout; float money never enters a sum.
func ComputeRevenue(transactions []model.Transaction) model.RevenueSummary {
	summary := model.RevenueSummary{
		CollectedRevenue: decimal.Zero,
		PendingRevenue:   decimal.Zero,
		ByType:           make(map[string]decimal.Decimal),
	}
	for _, tx := range transactions {
		switch tx.Status {
		case "completed":
			summary.CompletedCount++
			summary.CollectedRevenue = summary.CollectedRevenue.Add(tx.Amount)
			byType := summary.ByType[tx.Type]
			summary.ByType[tx.Type] = byType.Add(tx.Amount)
		case "pending":
			summary.PendingCount++
			summary.PendingRevenue = summary.PendingRevenue.Add(tx.Amount)
		case "failed":
			summary.FailedCount++
		}
	}
	return summary
}

// analyticsService orchestrates snapshot fetches around the pure reducers
// and owns the viewer-session lifecycle endpoints.
type analyticsService struct {
	snapshots    repository.SnapshotFetcher
	sessions     repository.ViewerSessionRepository
	transactions repository.TransactionRepository
	now          func() time.Time
	log          zerolog.Logger
}

func NewAnalyticsService(
	snapshots repository.SnapshotFetcher,
	sessions repository.ViewerSessionRepository,
	transactions repository.TransactionRepository,
	logger zerolog.Logger,
) AnalyticsService {
	l := logger.With().Str("module", "service").Str("component", "analytics").Logger()
	return &analyticsService{
		snapshots:    snapshots,
		sessions:     sessions,
		transactions: transactions,
		now:          time.Now,
		log:          l,
	}
}

func (s *analyticsService) Revenue(ctx context.Context) (model.RevenueSummary, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("transaction listing failed")
		return model.RevenueSummary{}, err
	}
	return ComputeRevenue(txs), nil
}

func (s *analyticsService) Generate(ctx context.Context) (model.AnalyticsReport, error) {
	start := time.Now()
	snap, err := s.snapshots.FetchAnalytics(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("analytics snapshot fetch failed")
		return model.AnalyticsReport{}, err
	}
	report := ComputeReport(snap, s.now())
	s.log.Debug().
		Dur("took", time.Since(start)).
		Int("channels", len(snap.Channels)).
		Int("sessions", len(snap.Sessions)).
		Msg("analytics report generated")
	return report, nil
}

func (s *analyticsService) StartSession(ctx context.Context, session model.ViewerSession) (model.ViewerSession, error) {
	var ferrs []FieldError
	if session.ChannelID == "" {
		ferrs = append(ferrs, FieldError{Field: "channel_id", Message: "must not be empty"})
	}
	switch session.DeviceType {
	case "desktop", "mobile", "tablet":
	default:
		ferrs = append(ferrs, FieldError{Field: "device_type", Message: "must be one of desktop, mobile, tablet"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.ViewerSession{}, err
	}

	session.IsActive = true
	session.EndTime = nil
	session.Duration = nil
	if session.StartTime.IsZero() {
		session.StartTime = s.now().UTC()
	}
	return s.sessions.Create(ctx, session)
}

func (s *analyticsService) EndSession(ctx context.Context, id string) (model.ViewerSession, error) {
	if id == "" {
		return model.ViewerSession{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	// Look the session up to compute the elapsed duration server-side.
	// Only active sessions qualify; ending twice must not rewrite the
	// duration recorded by the first call.
	activeOnly := true
	active, err := s.sessions.List(ctx, repository.SessionFilter{IsActive: &activeOnly})
	if err != nil {
		return model.ViewerSession{}, err
	}
	for _, session := range active {
		if session.ID != id {
			continue
		}
		elapsed := int(s.now().UTC().Sub(session.StartTime) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		return s.sessions.End(ctx, id, elapsed)
	}
	return model.ViewerSession{}, repository.ErrNotFound
}
