package repository

import (
	"context"
	"time"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/store"
)

// LeagueRepo persists league documents.
type LeagueRepo struct{ c *core }

func (r *LeagueRepo) List(ctx context.Context) ([]model.League, error) {
	q := store.Query{Order: []store.Order{store.OrderAsc("name")}}
	return listDocs(ctx, r.c, store.CollectionLeagues, q, leagueDoc.toModel)
}

func (r *LeagueRepo) Create(ctx context.Context, l model.League) (model.League, error) {
	payload := map[string]any{
		"name":    l.Name,
		"country": l.Country,
		"season":  l.Season,
	}
	return createDoc(ctx, r.c, store.CollectionLeagues, l.ID, payload, leagueDoc.toModel)
}

func (r *LeagueRepo) Update(ctx context.Context, id string, patch map[string]any) (model.League, error) {
	return updateDoc(ctx, r.c, store.CollectionLeagues, id, patch, leagueDoc.toModel)
}

func (r *LeagueRepo) Delete(ctx context.Context, id string) error {
	return r.c.deleteDoc(ctx, store.CollectionLeagues, id)
}

// TeamRepo persists team documents.
type TeamRepo struct{ c *core }

func (r *TeamRepo) List(ctx context.Context, leagueID string) ([]model.Team, error) {
	q := store.Query{Order: []store.Order{store.OrderAsc("name")}}
	if leagueID != "" {
		q.Filters = append(q.Filters, store.Equal("leagueId", leagueID))
	}
	return listDocs(ctx, r.c, store.CollectionTeams, q, teamDoc.toModel)
}

func (r *TeamRepo) Create(ctx context.Context, t model.Team) (model.Team, error) {
	payload := map[string]any{
		"name":     t.Name,
		"leagueId": t.LeagueID,
	}
	if t.LogoURL != "" {
		payload["logoUrl"] = t.LogoURL
	}
	return createDoc(ctx, r.c, store.CollectionTeams, t.ID, payload, teamDoc.toModel)
}

func (r *TeamRepo) Update(ctx context.Context, id string, patch map[string]any) (model.Team, error) {
	return updateDoc(ctx, r.c, store.CollectionTeams, id, patch, teamDoc.toModel)
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	return r.c.deleteDoc(ctx, store.CollectionTeams, id)
}

// FixtureRepo persists fixture documents.
type FixtureRepo struct{ c *core }

func (r *FixtureRepo) List(ctx context.Context, leagueID string) ([]model.Fixture, error) {
	q := store.Query{Order: []store.Order{store.OrderAsc("date")}}
	if leagueID != "" {
		q.Filters = append(q.Filters, store.Equal("leagueId", leagueID))
	}
	return listDocs(ctx, r.c, store.CollectionFixtures, q, fixtureDoc.toModel)
}

func (r *FixtureRepo) Create(ctx context.Context, f model.Fixture) (model.Fixture, error) {
	payload := map[string]any{
		"leagueId":   f.LeagueID,
		"homeTeamId": f.HomeTeamID,
		"awayTeamId": f.AwayTeamID,
		"date":       f.Date.UTC().Format(time.RFC3339),
		"status":     f.Status,
	}
	if f.Venue != "" {
		payload["venue"] = f.Venue
	}
	return createDoc(ctx, r.c, store.CollectionFixtures, f.ID, payload, fixtureDoc.toModel)
}

func (r *FixtureRepo) Update(ctx context.Context, id string, patch map[string]any) (model.Fixture, error) {
	return updateDoc(ctx, r.c, store.CollectionFixtures, id, patch, fixtureDoc.toModel)
}

func (r *FixtureRepo) Delete(ctx context.Context, id string) error {
	return r.c.deleteDoc(ctx, store.CollectionFixtures, id)
}

// ResultRepo persists match results.
type ResultRepo struct{ c *core }

// List fetches results newest first. A non-empty leagueID filters on the
// embedded fixture's league attribute.
func (r *ResultRepo) List(ctx context.Context, leagueID string) ([]model.Result, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc(store.FieldCreatedAt)}}
	if leagueID != "" {
		q.Filters = append(q.Filters, store.Equal("fixture.leagueId", leagueID))
	}
	return listDocs(ctx, r.c, store.CollectionResults, q, resultDoc.toModel)
}

// Count returns the total number of result documents. The refresher uses it
// as a cheap change trigger; it is a length comparison, not a diff.
func (r *ResultRepo) Count(ctx context.Context) (int, error) {
	raws, err := r.c.store.ListDocuments(ctx, store.CollectionResults, store.Query{})
	if err != nil {
		return 0, MapStoreError(err)
	}
	return len(raws), nil
}

func (r *ResultRepo) Create(ctx context.Context, res model.Result) (model.Result, error) {
	payload := map[string]any{
		"fixtureId": res.FixtureID,
		"fixture": map[string]any{
			"$id":        res.Fixture.ID,
			"leagueId":   res.Fixture.LeagueID,
			"homeTeamId": res.Fixture.HomeTeamID,
			"awayTeamId": res.Fixture.AwayTeamID,
		},
		"homeGoals": res.HomeGoals,
		"awayGoals": res.AwayGoals,
		"status":    res.Status,
	}
	if len(res.Goals) > 0 {
		goals := make([]map[string]any, 0, len(res.Goals))
		for _, g := range res.Goals {
			goals = append(goals, map[string]any{"playerName": g.PlayerName, "minute": g.Minute, "type": g.Type})
		}
		payload["goals"] = goals
	}
	if len(res.Cards) > 0 {
		cards := make([]map[string]any, 0, len(res.Cards))
		for _, card := range res.Cards {
			entry := map[string]any{"playerName": card.PlayerName, "minute": card.Minute, "type": card.Type}
			if card.Reason != "" {
				entry["reason"] = card.Reason
			}
			cards = append(cards, entry)
		}
		payload["cards"] = cards
	}
	return createDoc(ctx, r.c, store.CollectionResults, res.ID, payload, resultDoc.toModel)
}

func (r *ResultRepo) Update(ctx context.Context, id string, patch map[string]any) (model.Result, error) {
	return updateDoc(ctx, r.c, store.CollectionResults, id, patch, resultDoc.toModel)
}

func (r *ResultRepo) Delete(ctx context.Context, id string) error {
	return r.c.deleteDoc(ctx, store.CollectionResults, id)
}
