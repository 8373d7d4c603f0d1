package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
	"github.com/zimstream/stream-ops-service/internal/service"
	"github.com/zimstream/stream-ops-service/internal/store"
)

func TestSeedAnalytics(t *testing.T) {
	mem := store.NewMemory()
	repos := repository.New(mem, testLogger())
	ctx := context.Background()

	_, err := repos.Channels.Create(ctx, model.Channel{Name: "ZimStream One"})
	require.NoError(t, err)

	home, err := repos.Teams.Create(ctx, model.Team{Name: "Dynamos", LeagueID: "league-1"})
	require.NoError(t, err)
	away, err := repos.Teams.Create(ctx, model.Team{Name: "Highlanders", LeagueID: "league-1"})
	require.NoError(t, err)
	_, err = repos.Fixtures.Create(ctx, model.Fixture{
		LeagueID: "league-1", HomeTeamID: home.ID, AwayTeamID: away.ID,
		Date: time.Now(), Status: "scheduled",
	})
	require.NoError(t, err)

	_, err = mem.CreateDocument(ctx, store.CollectionUsers, "u1", map[string]any{
		"email": "fan@example.com", "name": "Fan", "role": "user",
	})
	require.NoError(t, err)

	svc := service.NewSeedService(repos, testLogger())
	summary, err := svc.SeedAnalytics(ctx)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.Sessions, 10)
	assert.GreaterOrEqual(t, summary.Comments, 5)
	assert.Equal(t, 1, summary.Subscriptions)
	assert.Equal(t, 1, summary.MatchPopularity)

	// Seeded documents must survive the repository's decode validation.
	sessions, err := repos.Sessions.List(ctx, repository.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, sessions, summary.Sessions)
	for _, s := range sessions {
		if !s.IsActive {
			require.NotNil(t, s.Duration)
			assert.Positive(t, *s.Duration)
		}
	}

	subs, err := repos.Subscriptions.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, model.SubActive, subs[0].Status)

	pops, err := repos.MatchPopularity.List(ctx)
	require.NoError(t, err)
	require.Len(t, pops, 1)
	assert.Equal(t, "Dynamos", pops[0].HomeTeam)
}

func TestSeedAnalytics_EmptyStore(t *testing.T) {
	repos := repository.New(store.NewMemory(), testLogger())

	svc := service.NewSeedService(repos, testLogger())
	summary, err := svc.SeedAnalytics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Sessions)
	assert.Zero(t, summary.Comments)
	assert.Zero(t, summary.Subscriptions)
	assert.Zero(t, summary.MatchPopularity)
}
