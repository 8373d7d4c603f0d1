package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zimstream/stream-ops-service/internal/model"
)

// Wire shapes for documents as the hosted backend stores them: camelCase
// attributes plus $-prefixed system fields. Each doc type converts itself
// into the corresponding domain model, rejecting records that must not
// enter a fold. Conversion errors mean "skip this document", never "abort
// the run".

// isoTime parses the backend's ISO-8601 timestamp strings leniently.
// An empty or unparseable value decodes to the zero time rather than
// failing the whole document.
type isoTime struct {
	time.Time
}

func (t *isoTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

type leagueDoc struct {
	ID        string  `json:"$id"`
	CreatedAt isoTime `json:"$createdAt"`
	UpdatedAt isoTime `json:"$updatedAt"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Season    string  `json:"season"`
}

func (d leagueDoc) toModel() (model.League, error) {
	if d.Name == "" {
		return model.League{}, fmt.Errorf("league %s: missing name", d.ID)
	}
	return model.League{
		ID: d.ID, Name: d.Name, Country: d.Country, Season: d.Season,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type teamDoc struct {
	ID        string  `json:"$id"`
	CreatedAt isoTime `json:"$createdAt"`
	UpdatedAt isoTime `json:"$updatedAt"`
	Name      string  `json:"name"`
	LeagueID  string  `json:"leagueId"`
	LogoURL   string  `json:"logoUrl"`
}

func (d teamDoc) toModel() (model.Team, error) {
	if d.Name == "" {
		return model.Team{}, fmt.Errorf("team %s: missing name", d.ID)
	}
	return model.Team{
		ID: d.ID, Name: d.Name, LeagueID: d.LeagueID, LogoURL: d.LogoURL,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type fixtureDoc struct {
	ID         string  `json:"$id"`
	CreatedAt  isoTime `json:"$createdAt"`
	UpdatedAt  isoTime `json:"$updatedAt"`
	LeagueID   string  `json:"leagueId"`
	HomeTeamID string  `json:"homeTeamId"`
	AwayTeamID string  `json:"awayTeamId"`
	Date       isoTime `json:"date"`
	Venue      string  `json:"venue"`
	Status     string  `json:"status"`
}

func (d fixtureDoc) toModel() (model.Fixture, error) {
	if d.HomeTeamID == "" || d.AwayTeamID == "" {
		return model.Fixture{}, fmt.Errorf("fixture %s: missing team reference", d.ID)
	}
	return model.Fixture{
		ID: d.ID, LeagueID: d.LeagueID,
		HomeTeamID: d.HomeTeamID, AwayTeamID: d.AwayTeamID,
		Date: d.Date.Time, Venue: d.Venue, Status: d.Status,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type fixtureRefDoc struct {
	ID         string `json:"$id"`
	LeagueID   string `json:"leagueId"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
}

type goalDoc struct {
	PlayerName string `json:"playerName"`
	Minute     int    `json:"minute"`
	Type       string `json:"type"`
}

type cardDoc struct {
	PlayerName string `json:"playerName"`
	Minute     int    `json:"minute"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
}

type resultDoc struct {
	ID        string         `json:"$id"`
	CreatedAt isoTime        `json:"$createdAt"`
	UpdatedAt isoTime        `json:"$updatedAt"`
	FixtureID string         `json:"fixtureId"`
	Fixture   *fixtureRefDoc `json:"fixture"`
	HomeGoals *int           `json:"homeGoals"`
	AwayGoals *int           `json:"awayGoals"`
	Status    string         `json:"status"`
	Goals     []goalDoc      `json:"goals"`
	Cards     []cardDoc      `json:"cards"`
}

func (d resultDoc) toModel() (model.Result, error) {
	if d.HomeGoals == nil || d.AwayGoals == nil {
		return model.Result{}, fmt.Errorf("result %s: missing score", d.ID)
	}
	if *d.HomeGoals < 0 || *d.AwayGoals < 0 {
		return model.Result{}, fmt.Errorf("result %s: negative score", d.ID)
	}
	switch d.Status {
	case model.StatusFullTime, model.StatusHalfTime, model.StatusAbandoned:
	default:
		return model.Result{}, fmt.Errorf("result %s: unknown status %q", d.ID, d.Status)
	}

	out := model.Result{
		ID: d.ID, FixtureID: d.FixtureID,
		HomeGoals: *d.HomeGoals, AwayGoals: *d.AwayGoals, Status: d.Status,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}
	if d.Fixture != nil {
		out.Fixture = model.FixtureRef{
			ID:         d.Fixture.ID,
			LeagueID:   d.Fixture.LeagueID,
			HomeTeamID: d.Fixture.HomeTeamID,
			AwayTeamID: d.Fixture.AwayTeamID,
		}
	}
	for _, g := range d.Goals {
		out.Goals = append(out.Goals, model.Goal{PlayerName: g.PlayerName, Minute: g.Minute, Type: g.Type})
	}
	for _, c := range d.Cards {
		out.Cards = append(out.Cards, model.Card{PlayerName: c.PlayerName, Minute: c.Minute, Type: c.Type, Reason: c.Reason})
	}
	return out, nil
}

type channelDoc struct {
	ID        string  `json:"$id"`
	CreatedAt isoTime `json:"$createdAt"`
	UpdatedAt isoTime `json:"$updatedAt"`
	Name      string  `json:"name"`
	StreamURL string  `json:"streamUrl"`
	FixtureID string  `json:"fixtureId"`
	IsLive    bool    `json:"isLive"`
}

func (d channelDoc) toModel() (model.Channel, error) {
	if d.Name == "" {
		return model.Channel{}, fmt.Errorf("channel %s: missing name", d.ID)
	}
	return model.Channel{
		ID: d.ID, Name: d.Name, StreamURL: d.StreamURL,
		FixtureID: d.FixtureID, IsLive: d.IsLive,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type viewerSessionDoc struct {
	ID         string   `json:"$id"`
	CreatedAt  isoTime  `json:"$createdAt"`
	UpdatedAt  isoTime  `json:"$updatedAt"`
	ChannelID  string   `json:"channelId"`
	UserID     string   `json:"userId"`
	StartTime  isoTime  `json:"startTime"`
	EndTime    *isoTime `json:"endTime"`
	Duration   *int     `json:"duration"`
	IsActive   bool     `json:"isActive"`
	DeviceType string   `json:"deviceType"`
	Location   string   `json:"location"`
}

func (d viewerSessionDoc) toModel() (model.ViewerSession, error) {
	if d.ChannelID == "" {
		return model.ViewerSession{}, fmt.Errorf("session %s: missing channel reference", d.ID)
	}
	if d.Duration != nil && *d.Duration < 0 {
		return model.ViewerSession{}, fmt.Errorf("session %s: negative duration", d.ID)
	}
	out := model.ViewerSession{
		ID: d.ID, ChannelID: d.ChannelID, UserID: d.UserID,
		StartTime: d.StartTime.Time, IsActive: d.IsActive,
		DeviceType: d.DeviceType, Location: d.Location,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}
	if d.EndTime != nil {
		out.EndTime = &d.EndTime.Time
	}
	out.Duration = d.Duration
	return out, nil
}

type subscriptionDoc struct {
	ID        string           `json:"$id"`
	CreatedAt isoTime          `json:"$createdAt"`
	UpdatedAt isoTime          `json:"$updatedAt"`
	UserID    string           `json:"userId"`
	PlanType  string           `json:"planType"`
	Status    string           `json:"status"`
	Price     *decimal.Decimal `json:"price"`
	Channels  []string         `json:"channels"`
}

func (d subscriptionDoc) toModel() (model.Subscription, error) {
	switch d.PlanType {
	case model.PlanFree, model.PlanBasic, model.PlanPremium:
	default:
		return model.Subscription{}, fmt.Errorf("subscription %s: unknown plan %q", d.ID, d.PlanType)
	}
	switch d.Status {
	case model.SubActive, model.SubExpired, model.SubPending, model.SubCancelled:
	default:
		return model.Subscription{}, fmt.Errorf("subscription %s: unknown status %q", d.ID, d.Status)
	}
	price := decimal.Zero
	if d.Price != nil {
		price = *d.Price
	}
	return model.Subscription{
		ID: d.ID, UserID: d.UserID, PlanType: d.PlanType, Status: d.Status,
		Price: price, Channels: d.Channels,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type commentDoc struct {
	ID               string  `json:"$id"`
	CreatedAt        isoTime `json:"$createdAt"`
	UpdatedAt        isoTime `json:"$updatedAt"`
	ChannelID        string  `json:"channelId"`
	UserID           string  `json:"userId"`
	Content          string  `json:"content"`
	ModerationStatus string  `json:"moderationStatus"`
}

func (d commentDoc) toModel() (model.Comment, error) {
	if d.ChannelID == "" {
		return model.Comment{}, fmt.Errorf("comment %s: missing channel reference", d.ID)
	}
	return model.Comment{
		ID: d.ID, ChannelID: d.ChannelID, UserID: d.UserID,
		Content: d.Content, ModerationStatus: d.ModerationStatus,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type matchPopularityDoc struct {
	ID              string  `json:"$id"`
	CreatedAt       isoTime `json:"$createdAt"`
	UpdatedAt       isoTime `json:"$updatedAt"`
	MatchID         string  `json:"matchId"`
	HomeTeam        string  `json:"homeTeam"`
	AwayTeam        string  `json:"awayTeam"`
	TotalViewers    int     `json:"totalViewers"`
	PeakViewers     int     `json:"peakViewers"`
	AverageViewTime int     `json:"averageViewTime"`
	TotalComments   int     `json:"totalComments"`
	EngagementScore float64 `json:"engagementScore"`
	Date            isoTime `json:"date"`
}

func (d matchPopularityDoc) toModel() (model.MatchPopularity, error) {
	if d.HomeTeam == "" || d.AwayTeam == "" {
		return model.MatchPopularity{}, fmt.Errorf("match popularity %s: missing team name", d.ID)
	}
	if d.TotalViewers < 0 || d.TotalComments < 0 {
		return model.MatchPopularity{}, fmt.Errorf("match popularity %s: negative counter", d.ID)
	}
	return model.MatchPopularity{
		ID: d.ID, MatchID: d.MatchID,
		HomeTeam: d.HomeTeam, AwayTeam: d.AwayTeam,
		TotalViewers: d.TotalViewers, PeakViewers: d.PeakViewers,
		AverageViewTime: d.AverageViewTime, TotalComments: d.TotalComments,
		EngagementScore: d.EngagementScore, Date: d.Date.Time,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type appUserDoc struct {
	ID        string  `json:"$id"`
	CreatedAt isoTime `json:"$createdAt"`
	UpdatedAt isoTime `json:"$updatedAt"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
}

func (d appUserDoc) toModel() (model.AppUser, error) {
	return model.AppUser{
		ID: d.ID, Email: d.Email, Name: d.Name, Role: d.Role,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}

type transactionDoc struct {
	ID          string           `json:"$id"`
	CreatedAt   isoTime          `json:"$createdAt"`
	UpdatedAt   isoTime          `json:"$updatedAt"`
	UserID      string           `json:"userId"`
	Amount      *decimal.Decimal `json:"amount"`
	PhoneNumber string           `json:"phoneNumber"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	Reference   string           `json:"reference"`
}

func (d transactionDoc) toModel() (model.Transaction, error) {
	if d.Amount == nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: missing amount", d.ID)
	}
	return model.Transaction{
		ID: d.ID, UserID: d.UserID, Amount: *d.Amount,
		PhoneNumber: d.PhoneNumber, Type: d.Type, Status: d.Status,
		Reference: d.Reference,
		CreatedAt: d.CreatedAt.Time, UpdatedAt: d.UpdatedAt.Time,
	}, nil
}
