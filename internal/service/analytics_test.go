package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
	"github.com/zimstream/stream-ops-service/internal/service"
)

func intPtr(v int) *int { return &v }

func sessionsForChannel(channelID string, active int, durations []int) []model.ViewerSession {
	out := make([]model.ViewerSession, 0, active+len(durations))
	for i := 0; i < active; i++ {
		out = append(out, model.ViewerSession{
			ID:        channelID + "-active-" + string(rune('a'+i)),
			ChannelID: channelID,
			IsActive:  true,
		})
	}
	for i, d := range durations {
		out = append(out, model.ViewerSession{
			ID:        channelID + "-done-" + string(rune('a'+i)),
			ChannelID: channelID,
			Duration:  intPtr(d),
		})
	}
	return out
}

func TestComputeChannelViewers(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1", Name: "ZimStream One"}}
	// 10 sessions: 4 active (no duration yet), 6 ended with durations
	// summing to 4200 seconds.
	sessions := sessionsForChannel("ch-1", 4, []int{600, 900, 300, 1200, 450, 750})

	got := service.ComputeChannelViewers(channels, sessions)
	require.Len(t, got, 1)

	cv := got[0]
	assert.Equal(t, "ch-1", cv.ChannelID)
	assert.Equal(t, "ZimStream One", cv.ChannelName)
	assert.Equal(t, 4, cv.CurrentViewers)
	assert.Equal(t, 10, cv.TotalViews)
	assert.Equal(t, 4, cv.PeakViewers)
	assert.InDelta(t, 700.0, cv.AverageViewTime, 1e-9)
}

func TestComputeChannelViewers_NoDurations(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1", Name: "ZimStream One"}}
	sessions := sessionsForChannel("ch-1", 3, nil)

	got := service.ComputeChannelViewers(channels, sessions)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].CurrentViewers)
	// No ended sessions: the average stays zero instead of dividing by zero.
	assert.Zero(t, got[0].AverageViewTime)
}

func TestComputeChannelViewers_NoSessions(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1", Name: "Quiet Channel"}}

	got := service.ComputeChannelViewers(channels, nil)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].CurrentViewers)
	assert.Zero(t, got[0].PeakViewers)
	assert.Zero(t, got[0].TotalViews)
	assert.Zero(t, got[0].AverageViewTime)
}

func TestComputeChannelViewers_IgnoresOtherChannels(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1"}, {ID: "ch-2"}}
	sessions := append(
		sessionsForChannel("ch-1", 2, []int{100}),
		sessionsForChannel("ch-2", 1, nil)...,
	)

	got := service.ComputeChannelViewers(channels, sessions)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].TotalViews)
	assert.Equal(t, 1, got[1].TotalViews)
}

func TestComputeSubscriptionGrowth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	// Three subscriptions created 5 days before now.
	created := now.AddDate(0, 0, -5)
	subs := []model.Subscription{
		{ID: "s1", PlanType: model.PlanFree, CreatedAt: created},
		{ID: "s2", PlanType: model.PlanBasic, CreatedAt: created},
		{ID: "s3", PlanType: model.PlanPremium, CreatedAt: created},
	}

	series := service.ComputeSubscriptionGrowth(subs, now)
	require.Len(t, series, 30)

	assert.Equal(t, "2026-02-14", series[0].Date)
	assert.Equal(t, "2026-03-15", series[29].Date)

	// Before the creation day the totals are zero; from the creation day
	// onward the series holds at 3 with one subscription per plan.
	for i, point := range series {
		if point.Date < "2026-03-10" {
			assert.Zero(t, point.TotalSubscriptions, "day %d (%s)", i, point.Date)
			continue
		}
		assert.Equal(t, 3, point.TotalSubscriptions, "day %d (%s)", i, point.Date)
		assert.Equal(t, 1, point.FreeSubscriptions, "day %d (%s)", i, point.Date)
		assert.Equal(t, 1, point.BasicSubscriptions, "day %d (%s)", i, point.Date)
		assert.Equal(t, 1, point.PremiumSubscriptions, "day %d (%s)", i, point.Date)
	}
}

func TestComputeSubscriptionGrowth_OldSubscriptionsAlwaysCounted(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	subs := []model.Subscription{
		{ID: "s1", PlanType: model.PlanBasic, CreatedAt: now.AddDate(-1, 0, 0)},
	}

	series := service.ComputeSubscriptionGrowth(subs, now)
	require.Len(t, series, 30)
	for _, point := range series {
		assert.Equal(t, 1, point.TotalSubscriptions, point.Date)
	}
}

func TestComputeSubscriptionGrowth_Empty(t *testing.T) {
	series := service.ComputeSubscriptionGrowth(nil, time.Now())
	require.Len(t, series, 30)
	for _, point := range series {
		assert.Zero(t, point.TotalSubscriptions)
	}
}

func TestComputeTeamPopularity(t *testing.T) {
	teams := []model.Team{
		{ID: "team-a", Name: "Dynamos"},
		{ID: "team-b", Name: "Highlanders"},
		{ID: "team-c", Name: "CAPS United"},
	}
	popularity := []model.MatchPopularity{
		{HomeTeam: "Dynamos", AwayTeam: "Highlanders", TotalViewers: 1000, TotalComments: 50, EngagementScore: 5.0},
		{HomeTeam: "CAPS United", AwayTeam: "Dynamos", TotalViewers: 500, TotalComments: 20, EngagementScore: 4.0},
	}

	got := service.ComputeTeamPopularity(teams, popularity)
	require.Len(t, got, 3)

	dynamos := got[0]
	assert.Equal(t, 2, dynamos.TotalMatches)
	assert.Equal(t, 1500, dynamos.TotalViewers)
	assert.Equal(t, 70, dynamos.TotalComments)
	assert.InDelta(t, 750.0, dynamos.AverageViewersPerMatch, 1e-9)
	assert.InDelta(t, 4.5, dynamos.EngagementScore, 1e-9)

	highlanders := got[1]
	assert.Equal(t, 1, highlanders.TotalMatches)
	assert.Equal(t, 1000, highlanders.TotalViewers)
}

func TestComputeTeamPopularity_NoMatches(t *testing.T) {
	teams := []model.Team{{ID: "team-a", Name: "Dynamos"}}

	got := service.ComputeTeamPopularity(teams, nil)
	require.Len(t, got, 1)
	// Zero matches: averages stay zero, no division happens.
	assert.Zero(t, got[0].AverageViewersPerMatch)
	assert.Zero(t, got[0].EngagementScore)
	assert.Zero(t, got[0].TotalMatches)
}

func commentBy(channelID, userID string) model.Comment {
	return model.Comment{ChannelID: channelID, UserID: userID, Content: "⚽"}
}

func TestComputeChannelEngagement(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1", Name: "ZimStream One"}}
	comments := []model.Comment{
		commentBy("ch-1", "u1"),
		commentBy("ch-1", "u2"),
		commentBy("ch-1", "u1"),
		commentBy("ch-1", "u3"),
		commentBy("ch-1", "u1"),
		commentBy("ch-1", "u2"),
		commentBy("ch-2", "u9"), // other channel
	}

	got := service.ComputeChannelEngagement(channels, comments)
	require.Len(t, got, 1)

	eng := got[0]
	assert.Equal(t, 6, eng.TotalComments)
	assert.Equal(t, 3, eng.ActiveCommenters)
	assert.InDelta(t, 2.0, eng.EngagementRate, 1e-9)
	assert.InDelta(t, 0.25, eng.AverageCommentsPerHr, 1e-9)
	assert.Equal(t, []string{"u1", "u2", "u3"}, eng.TopCommenterIDs)
}

func TestComputeChannelEngagement_TopFiveCap(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1"}}
	var comments []model.Comment
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	for i, u := range users {
		// u1 posts most, u7 least.
		for n := 0; n <= len(users)-i; n++ {
			comments = append(comments, commentBy("ch-1", u))
		}
	}

	got := service.ComputeChannelEngagement(channels, comments)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ActiveCommenters)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4", "u5"}, got[0].TopCommenterIDs)
}

func TestComputeChannelEngagement_TieKeepsEncounterOrder(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1"}}
	// zeta, alpha and mid all post twice; u-big posts three times.
	comments := []model.Comment{
		commentBy("ch-1", "zeta"),
		commentBy("ch-1", "alpha"),
		commentBy("ch-1", "u-big"),
		commentBy("ch-1", "mid"),
		commentBy("ch-1", "zeta"),
		commentBy("ch-1", "u-big"),
		commentBy("ch-1", "alpha"),
		commentBy("ch-1", "mid"),
		commentBy("ch-1", "u-big"),
	}

	got := service.ComputeChannelEngagement(channels, comments)
	require.Len(t, got, 1)
	// Tied commenters keep the order they first appeared in.
	assert.Equal(t, []string{"u-big", "zeta", "alpha", "mid"}, got[0].TopCommenterIDs)
}

func TestComputeChannelEngagement_NoComments(t *testing.T) {
	channels := []model.Channel{{ID: "ch-1", Name: "Quiet Channel"}}

	got := service.ComputeChannelEngagement(channels, nil)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].TotalComments)
	assert.Zero(t, got[0].ActiveCommenters)
	assert.Zero(t, got[0].EngagementRate)
	assert.Empty(t, got[0].TopCommenterIDs)
}

func TestComputeOverview(t *testing.T) {
	snap := repository.AnalyticsSnapshot{
		Sessions: sessionsForChannel("ch-1", 2, []int{400, 800}),
		Subscriptions: []model.Subscription{
			{PlanType: model.PlanPremium, Status: model.SubActive, Price: decimal.RequireFromString("9.99")},
			{PlanType: model.PlanBasic, Status: model.SubActive, Price: decimal.RequireFromString("4.99")},
			{PlanType: model.PlanFree, Status: model.SubCancelled, Price: decimal.Zero},
			{PlanType: model.PlanBasic, Status: model.SubExpired, Price: decimal.RequireFromString("4.99")},
		},
		Users: []model.AppUser{
			{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"},
		},
		Fixtures: []model.Fixture{{ID: "f1"}, {ID: "f2"}},
		Comments: []model.Comment{commentBy("ch-1", "u1")},
	}

	got := service.ComputeOverview(snap)
	assert.Equal(t, 2, got.TotalViewers)
	assert.Equal(t, 4, got.TotalSubscriptions)
	assert.Equal(t, 2, got.TotalMatches)
	assert.Equal(t, 1, got.TotalComments)
	// Only active subscriptions contribute revenue.
	assert.True(t, got.TotalRevenue.Equal(decimal.RequireFromString("14.98")),
		"revenue = %s", got.TotalRevenue)
	assert.InDelta(t, 600.0, got.AverageViewTime, 1e-9)
	// 3 of 4 users hold a paid plan.
	assert.InDelta(t, 75.0, got.ConversionRate, 1e-9)
	// 1 of 4 subscriptions cancelled.
	assert.InDelta(t, 25.0, got.ChurnRate, 1e-9)
}

func TestComputeOverview_EmptySnapshot(t *testing.T) {
	got := service.ComputeOverview(repository.AnalyticsSnapshot{})
	assert.Zero(t, got.TotalViewers)
	assert.Zero(t, got.ConversionRate)
	assert.Zero(t, got.ChurnRate)
	assert.Zero(t, got.AverageViewTime)
	assert.True(t, got.TotalRevenue.IsZero())
}

func TestComputeRevenue(t *testing.T) {
	transactions := []model.Transaction{
		{ID: "tx-1", Type: "subscription", Status: "completed", Amount: decimal.RequireFromString("9.99")},
		{ID: "tx-2", Type: "subscription", Status: "completed", Amount: decimal.RequireFromString("4.99")},
		{ID: "tx-3", Type: "top_up", Status: "completed", Amount: decimal.RequireFromString("2.50")},
		{ID: "tx-4", Type: "subscription", Status: "pending", Amount: decimal.RequireFromString("9.99")},
		{ID: "tx-5", Type: "top_up", Status: "failed", Amount: decimal.RequireFromString("5.00")},
	}

	got := service.ComputeRevenue(transactions)

	assert.Equal(t, 3, got.CompletedCount)
	assert.Equal(t, 1, got.PendingCount)
	assert.Equal(t, 1, got.FailedCount)
	assert.True(t, got.CollectedRevenue.Equal(decimal.RequireFromString("17.48")),
		"collected %s", got.CollectedRevenue)
	assert.True(t, got.PendingRevenue.Equal(decimal.RequireFromString("9.99")),
		"pending %s", got.PendingRevenue)
	require.Len(t, got.ByType, 2)
	assert.True(t, got.ByType["subscription"].Equal(decimal.RequireFromString("14.98")))
	assert.True(t, got.ByType["top_up"].Equal(decimal.RequireFromString("2.50")))
}

func TestComputeRevenue_Empty(t *testing.T) {
	got := service.ComputeRevenue(nil)

	assert.Zero(t, got.CompletedCount)
	assert.Zero(t, got.PendingCount)
	assert.Zero(t, got.FailedCount)
	assert.True(t, got.CollectedRevenue.IsZero())
	assert.True(t, got.PendingRevenue.IsZero())
	assert.Empty(t, got.ByType)
}

// fakeSnapshots serves canned snapshots for service-level tests.
type fakeSnapshots struct {
	analytics repository.AnalyticsSnapshot
	standings repository.StandingsSnapshot
	err       error
}

func (f *fakeSnapshots) FetchAnalytics(context.Context) (repository.AnalyticsSnapshot, error) {
	return f.analytics, f.err
}

func (f *fakeSnapshots) FetchStandings(context.Context, string) (repository.StandingsSnapshot, error) {
	return f.standings, f.err
}

// fakeTransactions serves canned billing transactions.
type fakeTransactions struct {
	txs []model.Transaction
	err error
}

func (f *fakeTransactions) List(context.Context) ([]model.Transaction, error) {
	return f.txs, f.err
}

func (f *fakeTransactions) Create(_ context.Context, t model.Transaction) (model.Transaction, error) {
	f.txs = append(f.txs, t)
	return t, nil
}

func (f *fakeTransactions) UpdateStatus(_ context.Context, id, status string) (model.Transaction, error) {
	for i, tx := range f.txs {
		if tx.ID == id {
			f.txs[i].Status = status
			return f.txs[i], nil
		}
	}
	return model.Transaction{}, repository.ErrNotFound
}

// fakeSessions records session lifecycle calls in memory.
type fakeSessions struct {
	sessions []model.ViewerSession
	ended    map[string]int
}

func (f *fakeSessions) List(_ context.Context, filter repository.SessionFilter) ([]model.ViewerSession, error) {
	out := make([]model.ViewerSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		if filter.ChannelID != "" && s.ChannelID != filter.ChannelID {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessions) Create(_ context.Context, session model.ViewerSession) (model.ViewerSession, error) {
	if session.ID == "" {
		session.ID = "sess-1"
	}
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeSessions) End(_ context.Context, id string, durationSec int) (model.ViewerSession, error) {
	if f.ended == nil {
		f.ended = make(map[string]int)
	}
	for i, s := range f.sessions {
		if s.ID != id {
			continue
		}
		f.ended[id] = durationSec
		f.sessions[i].IsActive = false
		f.sessions[i].Duration = &durationSec
		return f.sessions[i], nil
	}
	return model.ViewerSession{}, repository.ErrNotFound
}

func TestAnalyticsService_Generate(t *testing.T) {
	snap := repository.AnalyticsSnapshot{
		Channels: []model.Channel{{ID: "ch-1", Name: "ZimStream One"}},
		Sessions: sessionsForChannel("ch-1", 1, []int{100}),
	}
	svc := service.NewAnalyticsService(&fakeSnapshots{analytics: snap}, &fakeSessions{}, &fakeTransactions{}, testLogger())

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.ChannelViewers, 1)
	assert.Equal(t, 1, report.ChannelViewers[0].CurrentViewers)
	assert.Len(t, report.SubscriptionGrowth, 30)
}

func TestAnalyticsService_StartSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc := service.NewAnalyticsService(&fakeSnapshots{}, sessions, &fakeTransactions{}, testLogger())

	got, err := svc.StartSession(context.Background(), model.ViewerSession{
		ChannelID:  "ch-1",
		DeviceType: "mobile",
	})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.Duration)
	assert.False(t, got.StartTime.IsZero())
}

func TestAnalyticsService_StartSessionValidation(t *testing.T) {
	svc := service.NewAnalyticsService(&fakeSnapshots{}, &fakeSessions{}, &fakeTransactions{}, testLogger())

	_, err := svc.StartSession(context.Background(), model.ViewerSession{DeviceType: "smartwatch"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	fields := service.FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "channel_id", fields[0].Field)
	assert.Equal(t, "device_type", fields[1].Field)
}

func TestAnalyticsService_EndSession(t *testing.T) {
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	sessions := &fakeSessions{sessions: []model.ViewerSession{
		{ID: "sess-1", ChannelID: "ch-1", StartTime: start, IsActive: true},
	}}
	svc := service.NewAnalyticsService(&fakeSnapshots{}, sessions, &fakeTransactions{}, testLogger())
	service.SetNow(svc, func() time.Time { return start.Add(10 * time.Minute) })

	got, err := svc.EndSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.Duration)
	assert.Equal(t, 600, *got.Duration)
}

func TestAnalyticsService_EndSessionTwiceKeepsDuration(t *testing.T) {
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	sessions := &fakeSessions{sessions: []model.ViewerSession{
		{ID: "sess-1", ChannelID: "ch-1", StartTime: start, IsActive: true},
	}}
	svc := service.NewAnalyticsService(&fakeSnapshots{}, sessions, &fakeTransactions{}, testLogger())
	service.SetNow(svc, func() time.Time { return start.Add(10 * time.Minute) })

	first, err := svc.EndSession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, first.Duration)
	assert.Equal(t, 600, *first.Duration)

	// A later retry must not rewrite the recorded duration.
	service.SetNow(svc, func() time.Time { return start.Add(time.Hour) })
	_, err = svc.EndSession(context.Background(), "sess-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NotNil(t, sessions.sessions[0].Duration)
	assert.Equal(t, 600, *sessions.sessions[0].Duration)
}

func TestAnalyticsService_Revenue(t *testing.T) {
	transactions := &fakeTransactions{txs: []model.Transaction{
		{ID: "tx-1", Type: "subscription", Status: "completed", Amount: decimal.RequireFromString("9.99")},
		{ID: "tx-2", Type: "top_up", Status: "pending", Amount: decimal.RequireFromString("2.50")},
	}}
	svc := service.NewAnalyticsService(&fakeSnapshots{}, &fakeSessions{}, transactions, testLogger())

	got, err := svc.Revenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.CompletedCount)
	assert.Equal(t, 1, got.PendingCount)
	assert.True(t, got.CollectedRevenue.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, got.PendingRevenue.Equal(decimal.RequireFromString("2.50")))
}

func TestAnalyticsService_RevenueStoreError(t *testing.T) {
	transactions := &fakeTransactions{err: repository.ErrUnavailable}
	svc := service.NewAnalyticsService(&fakeSnapshots{}, &fakeSessions{}, transactions, testLogger())

	_, err := svc.Revenue(context.Background())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestAnalyticsService_EndSessionNotFound(t *testing.T) {
	svc := service.NewAnalyticsService(&fakeSnapshots{}, &fakeSessions{}, &fakeTransactions{}, testLogger())

	_, err := svc.EndSession(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
