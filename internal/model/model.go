// Package model contains domain entities and derived read-models used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result statuses as stored by the hosted backend.
const (
	StatusFullTime  = "full_time"
	StatusHalfTime  = "half_time"
	StatusAbandoned = "abandoned"
)

// Subscription plan types.
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// Subscription statuses.
const (
	SubActive    = "active"
	SubExpired   = "expired"
	SubPending   = "pending"
	SubCancelled = "cancelled"
)

// League groups teams and fixtures under one competition.
type League struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Season    string    `json:"season"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Team represents a club registered in a league.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeagueID  string    `json:"league_id"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fixture represents a scheduled or completed match between two teams.
type Fixture struct {
	ID         string    `json:"id"`
	LeagueID   string    `json:"league_id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	Date       time.Time `json:"date"`
	Venue      string    `json:"venue,omitempty"`
	Status     string    `json:"status"` // scheduled, live, finished
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FixtureRef is the fixture view embedded in a Result document.
// The standings fold only needs league membership and the two team ids.
type FixtureRef struct {
	ID         string `json:"id"`
	LeagueID   string `json:"league_id"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

// Goal is a single scoring event inside a result.
type Goal struct {
	PlayerName string `json:"player_name"`
	Minute     int    `json:"minute"`
	Type       string `json:"type"` // open_play, penalty, own_goal, free_kick
}

// Card is a disciplinary event inside a result.
type Card struct {
	PlayerName string `json:"player_name"`
	Minute     int    `json:"minute"`
	Type       string `json:"type"` // yellow, red
	Reason     string `json:"reason,omitempty"`
}

// Result is the recorded outcome of a fixture.
// Only full_time results participate in standings.
type Result struct {
	ID        string     `json:"id"`
	FixtureID string     `json:"fixture_id"`
	Fixture   FixtureRef `json:"fixture"`
	HomeGoals int        `json:"home_goals"`
	AwayGoals int        `json:"away_goals"`
	Status    string     `json:"status"` // full_time, half_time, abandoned
	Goals     []Goal     `json:"goals,omitempty"`
	Cards     []Card     `json:"cards,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Channel is a live camera feed / broadcast channel.
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StreamURL string    `json:"stream_url,omitempty"`
	FixtureID string    `json:"fixture_id,omitempty"`
	IsLive    bool      `json:"is_live"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ViewerSession is one continuous observation interval of a user watching a channel.
// An active session has no EndTime and no Duration yet.
type ViewerSession struct {
	ID         string     `json:"id"`
	ChannelID  string     `json:"channel_id"`
	UserID     string     `json:"user_id,omitempty"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Duration   *int       `json:"duration,omitempty"` // seconds
	IsActive   bool       `json:"is_active"`
	DeviceType string     `json:"device_type"` // desktop, mobile, tablet
	Location   string     `json:"location,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Subscription is a user's paid (or free) plan.
type Subscription struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	PlanType  string          `json:"plan_type"` // free, basic, premium
	Status    string          `json:"status"`    // active, expired, pending, cancelled
	Price     decimal.Decimal `json:"price"`
	Channels  []string        `json:"channels,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Comment is a viewer message posted on a channel.
type Comment struct {
	ID               string    `json:"id"`
	ChannelID        string    `json:"channel_id"`
	UserID           string    `json:"user_id"`
	Content          string    `json:"content"`
	ModerationStatus string    `json:"moderation_status"` // approved, pending, rejected
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MatchPopularity is a precomputed per-match popularity record.
// Team references are by display name, not id; joins against it are
// name-based and break if two teams share a name.
type MatchPopularity struct {
	ID              string    `json:"id"`
	MatchID         string    `json:"match_id"`
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	TotalViewers    int       `json:"total_viewers"`
	PeakViewers     int       `json:"peak_viewers"`
	AverageViewTime int       `json:"average_view_time"`
	TotalComments   int       `json:"total_comments"`
	EngagementScore float64   `json:"engagement_score"`
	Date            time.Time `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AppUser is a dashboard end user.
type AppUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // admin, user
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is a billing event (EcoCash-style mobile payment).
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Type        string          `json:"type"`   // subscription, top_up
	Status      string          `json:"status"` // pending, completed, failed
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StandingsEntry holds one team's aggregated season record within a league
// table. It is recomputed wholesale on every standings run and carries no
// persisted identity across recomputations.
type StandingsEntry struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Position       int    `json:"position"`
}

// ChannelViewers is a per-channel viewership rollup.
type ChannelViewers struct {
	ChannelID       string  `json:"channel_id"`
	ChannelName     string  `json:"channel_name"`
	CurrentViewers  int     `json:"current_viewers"`
	PeakViewers     int     `json:"peak_viewers"`
	TotalViews      int     `json:"total_views"`
	AverageViewTime float64 `json:"average_view_time"` // seconds
}

// SubscriptionGrowth is one day of the cumulative subscription time series.
type SubscriptionGrowth struct {
	Date                 string `json:"date"` // YYYY-MM-DD
	FreeSubscriptions    int    `json:"free_subscriptions"`
	BasicSubscriptions   int    `json:"basic_subscriptions"`
	PremiumSubscriptions int    `json:"premium_subscriptions"`
	TotalSubscriptions   int    `json:"total_subscriptions"`
}

// TeamPopularity aggregates match popularity records per team.
type TeamPopularity struct {
	TeamID                 string  `json:"team_id"`
	TeamName               string  `json:"team_name"`
	TotalMatches           int     `json:"total_matches"`
	TotalViewers           int     `json:"total_viewers"`
	AverageViewersPerMatch float64 `json:"average_viewers_per_match"`
	TotalComments          int     `json:"total_comments"`
	EngagementScore        float64 `json:"engagement_score"`
}

// ChannelEngagement is a per-channel comment-activity rollup.
type ChannelEngagement struct {
	ChannelID            string   `json:"channel_id"`
	ChannelName          string   `json:"channel_name"`
	TotalComments        int      `json:"total_comments"`
	ActiveCommenters     int      `json:"active_commenters"`
	AverageCommentsPerHr float64  `json:"average_comments_per_hour"`
	EngagementRate       float64  `json:"engagement_rate"`
	TopCommenterIDs      []string `json:"top_commenter_ids"`
}

// AnalyticsReport bundles every derived analytics view produced by one
// aggregation run. Each run replaces the previous report wholesale.
type AnalyticsReport struct {
	ChannelViewers     []ChannelViewers     `json:"channel_viewers"`
	SubscriptionGrowth []SubscriptionGrowth `json:"subscription_growth"`
	TeamPopularity     []TeamPopularity     `json:"team_popularity"`
	ChannelEngagement  []ChannelEngagement  `json:"channel_engagement"`
	MatchPopularity    []MatchPopularity    `json:"match_popularity"`
	Overview           AnalyticsOverview    `json:"overview"`
}

// RevenueSummary is a billing rollup over transaction records. Only
// completed transactions count as collected revenue.
type RevenueSummary struct {
	CollectedRevenue decimal.Decimal            `json:"collected_revenue"`
	PendingRevenue   decimal.Decimal            `json:"pending_revenue"`
	CompletedCount   int                        `json:"completed_count"`
	PendingCount     int                        `json:"pending_count"`
	FailedCount      int                        `json:"failed_count"`
	ByType           map[string]decimal.Decimal `json:"by_type"`
}

// AnalyticsOverview is the single dashboard KPI record.
// This model is designed for read-only query results and is not persisted directly.
type AnalyticsOverview struct {
	TotalViewers       int             `json:"total_viewers"`
	TotalSubscriptions int             `json:"total_subscriptions"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalMatches       int             `json:"total_matches"`
	TotalComments      int             `json:"total_comments"`
	AverageViewTime    float64         `json:"average_view_time"` // seconds
	ConversionRate     float64         `json:"conversion_rate"`   // percent
	ChurnRate          float64         `json:"churn_rate"`        // percent
}
