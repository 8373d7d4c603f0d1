package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/repository"
)

// unknownTeamName is used when a result references a team id missing from
// the team universe. The fold still counts the matches.
const unknownTeamName = "Unknown Team"

// ComputeStandings folds full-time results into per-league tables.
//
// Results with a missing embedded league reference or a non full_time status
// are discarded. Accumulation is order-independent; only the final ranking
// applies an ordering (points, goal difference, goals for, then team name,
// with the team id breaking exact ties so the output is stable across input
// permutations). Positions are 1-based and distinct even when every numeric
// field ties.
//
// The returned map is freshly allocated per call; an empty or all-filtered
// input yields an empty map, never an error.
func ComputeStandings(results []model.Result, teams []model.Team) map[string][]model.StandingsEntry {
	namesByID := make(map[string]string, len(teams))
	for _, t := range teams {
		namesByID[t.ID] = t.Name
	}

	byLeague := make(map[string]map[string]*model.StandingsEntry)

	for _, res := range results {
		if res.Fixture.LeagueID == "" || res.Status != model.StatusFullTime {
			continue
		}
		if res.HomeGoals < 0 || res.AwayGoals < 0 {
			continue // malformed records never abort the fold
		}

		leagueID := res.Fixture.LeagueID
		league := byLeague[leagueID]
		if league == nil {
			league = make(map[string]*model.StandingsEntry)
			byLeague[leagueID] = league
		}

		home := ensureEntry(league, res.Fixture.HomeTeamID, namesByID)
		away := ensureEntry(league, res.Fixture.AwayTeamID, namesByID)

		home.Played++
		away.Played++
		home.GoalsFor += res.HomeGoals
		home.GoalsAgainst += res.AwayGoals
		away.GoalsFor += res.AwayGoals
		away.GoalsAgainst += res.HomeGoals

		switch {
		case res.HomeGoals > res.AwayGoals:
			home.Won++
			home.Points += 3
			away.Lost++
		case res.HomeGoals < res.AwayGoals:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}

		// Recompute rather than accumulate so the difference can never drift
		// from the totals.
		home.GoalDifference = home.GoalsFor - home.GoalsAgainst
		away.GoalDifference = away.GoalsFor - away.GoalsAgainst
	}

	tables := make(map[string][]model.StandingsEntry, len(byLeague))
	for leagueID, league := range byLeague {
		table := make([]model.StandingsEntry, 0, len(league))
		for _, entry := range league {
			table = append(table, *entry)
		}
		sort.Slice(table, func(i, j int) bool {
			a, b := table[i], table[j]
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.GoalDifference != b.GoalDifference {
				return a.GoalDifference > b.GoalDifference
			}
			if a.GoalsFor != b.GoalsFor {
				return a.GoalsFor > b.GoalsFor
			}
			if c := strings.Compare(a.TeamName, b.TeamName); c != 0 {
				return c < 0
			}
			return a.TeamID < b.TeamID
		})
		for i := range table {
			table[i].Position = i + 1
		}
		tables[leagueID] = table
	}
	return tables
}

func ensureEntry(league map[string]*model.StandingsEntry, teamID string, names map[string]string) *model.StandingsEntry {
	if entry, ok := league[teamID]; ok {
		return entry
	}
	name, ok := names[teamID]
	if !ok || name == "" {
		name = unknownTeamName
	}
	entry := &model.StandingsEntry{TeamID: teamID, TeamName: name}
	league[teamID] = entry
	return entry
}

// standingsService fetches a snapshot and recomputes tables on demand.
type standingsService struct {
	snapshots repository.SnapshotFetcher
	log       zerolog.Logger
}

func NewStandingsService(snapshots repository.SnapshotFetcher, logger zerolog.Logger) StandingsService {
	l := logger.With().Str("module", "service").Str("component", "standings").Logger()
	return &standingsService{snapshots: snapshots, log: l}
}

func (s *standingsService) GetStandings(ctx context.Context, leagueID string) (map[string][]model.StandingsEntry, error) {
	start := time.Now()
	snap, err := s.snapshots.FetchStandings(ctx, leagueID)
	if err != nil {
		s.log.Error().Err(err).Str("league_id", leagueID).Msg("standings snapshot fetch failed")
		return nil, err
	}
	tables := ComputeStandings(snap.Results, snap.Teams)
	s.log.Debug().
		Dur("took", time.Since(start)).
		Int("results", len(snap.Results)).
		Int("leagues", len(tables)).
		Msg("standings recomputed")
	return tables, nil
}
