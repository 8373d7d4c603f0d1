package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/service"
	"github.com/zimstream/stream-ops-service/pkg/response"
)

// CatalogHandler exposes CRUD endpoints over the managed collections.
// Controllers stay thin; validation happens in the service layer.
type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Register(r *gin.RouterGroup) {
	leagues := r.Group("/leagues")
	{
		leagues.GET("", h.listLeagues)
		leagues.POST("", h.createLeague)
		leagues.DELETE("/:league_id", h.deleteLeague)
	}
	teams := r.Group("/teams")
	{
		teams.GET("", h.listTeams)
		teams.POST("", h.createTeam)
		teams.DELETE("/:team_id", h.deleteTeam)
	}
	fixtures := r.Group("/fixtures")
	{
		fixtures.GET("", h.listFixtures)
		fixtures.POST("", h.createFixture)
		fixtures.DELETE("/:fixture_id", h.deleteFixture)
	}
	results := r.Group("/results")
	{
		results.GET("", h.listResults)
		results.POST("", h.createResult)
		results.DELETE("/:result_id", h.deleteResult)
	}
	channels := r.Group("/channels")
	{
		channels.GET("", h.listChannels)
		channels.POST("", h.createChannel)
		channels.PATCH("/:channel_id/live", h.setChannelLive)
		channels.DELETE("/:channel_id", h.deleteChannel)
	}
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("", h.listSubscriptions)
		subscriptions.POST("", h.createSubscription)
		subscriptions.POST("/:subscription_id/cancel", h.cancelSubscription)
	}
	transactions := r.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.PATCH("/:transaction_id/status", h.setTransactionStatus)
	}
}

func (h *CatalogHandler) listLeagues(c *gin.Context) {
	leagues, err := h.svc.ListLeagues(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, leagues)
}

type createLeagueRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  string `json:"season"`
}

func (h *CatalogHandler) createLeague(c *gin.Context) {
	var req createLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	league, err := h.svc.CreateLeague(c.Request.Context(), model.League{
		Name: req.Name, Country: req.Country, Season: req.Season,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, league)
}

func (h *CatalogHandler) deleteLeague(c *gin.Context) {
	if err := h.svc.DeleteLeague(c.Request.Context(), c.Param("league_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listTeams(c *gin.Context) {
	teams, err := h.svc.ListTeams(c.Request.Context(), c.Query("league_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, teams)
}

type createTeamRequest struct {
	Name     string `json:"name"`
	LeagueID string `json:"league_id"`
	LogoURL  string `json:"logo_url"`
}

func (h *CatalogHandler) createTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), model.Team{
		Name: req.Name, LeagueID: req.LeagueID, LogoURL: req.LogoURL,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *CatalogHandler) deleteTeam(c *gin.Context) {
	if err := h.svc.DeleteTeam(c.Request.Context(), c.Param("team_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listFixtures(c *gin.Context) {
	fixtures, err := h.svc.ListFixtures(c.Request.Context(), c.Query("league_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, fixtures)
}

type createFixtureRequest struct {
	LeagueID   string    `json:"league_id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	Date       time.Time `json:"date"`
	Venue      string    `json:"venue"`
}

func (h *CatalogHandler) createFixture(c *gin.Context) {
	var req createFixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	fixture, err := h.svc.CreateFixture(c.Request.Context(), model.Fixture{
		LeagueID:   req.LeagueID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		Date:       req.Date,
		Venue:      req.Venue,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, fixture)
}

func (h *CatalogHandler) deleteFixture(c *gin.Context) {
	if err := h.svc.DeleteFixture(c.Request.Context(), c.Param("fixture_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listResults(c *gin.Context) {
	results, err := h.svc.ListResults(c.Request.Context(), c.Query("league_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, results)
}

type createResultRequest struct {
	FixtureID string           `json:"fixture_id"`
	Fixture   model.FixtureRef `json:"fixture"`
	HomeGoals int              `json:"home_goals"`
	AwayGoals int              `json:"away_goals"`
	Status    string           `json:"status"`
	Goals     []model.Goal     `json:"goals"`
	Cards     []model.Card     `json:"cards"`
}

func (h *CatalogHandler) createResult(c *gin.Context) {
	var req createResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	result, err := h.svc.CreateResult(c.Request.Context(), model.Result{
		FixtureID: req.FixtureID,
		Fixture:   req.Fixture,
		HomeGoals: req.HomeGoals,
		AwayGoals: req.AwayGoals,
		Status:    req.Status,
		Goals:     req.Goals,
		Cards:     req.Cards,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, result)
}

func (h *CatalogHandler) deleteResult(c *gin.Context) {
	if err := h.svc.DeleteResult(c.Request.Context(), c.Param("result_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listChannels(c *gin.Context) {
	channels, err := h.svc.ListChannels(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, channels)
}

type createChannelRequest struct {
	Name      string `json:"name"`
	StreamURL string `json:"stream_url"`
	FixtureID string `json:"fixture_id"`
}

func (h *CatalogHandler) createChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	channel, err := h.svc.CreateChannel(c.Request.Context(), model.Channel{
		Name: req.Name, StreamURL: req.StreamURL, FixtureID: req.FixtureID,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, channel)
}

type setLiveRequest struct {
	IsLive bool `json:"is_live"`
}

func (h *CatalogHandler) setChannelLive(c *gin.Context) {
	var req setLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	channel, err := h.svc.SetChannelLive(c.Request.Context(), c.Param("channel_id"), req.IsLive)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, channel)
}

func (h *CatalogHandler) deleteChannel(c *gin.Context) {
	if err := h.svc.DeleteChannel(c.Request.Context(), c.Param("channel_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listSubscriptions(c *gin.Context) {
	subs, err := h.svc.ListSubscriptions(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, subs)
}

type createSubscriptionRequest struct {
	UserID   string          `json:"user_id"`
	PlanType string          `json:"plan_type"`
	Price    decimal.Decimal `json:"price"`
	Channels []string        `json:"channels"`
}

func (h *CatalogHandler) createSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	sub, err := h.svc.CreateSubscription(c.Request.Context(), model.Subscription{
		UserID:   req.UserID,
		PlanType: req.PlanType,
		Price:    req.Price,
		Channels: req.Channels,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, sub)
}

func (h *CatalogHandler) cancelSubscription(c *gin.Context) {
	sub, err := h.svc.CancelSubscription(c.Request.Context(), c.Param("subscription_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, sub)
}

func (h *CatalogHandler) listTransactions(c *gin.Context) {
	txs, err := h.svc.ListTransactions(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, txs)
}

type createTransactionRequest struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	PhoneNumber string          `json:"phone_number"`
	Type        string          `json:"type"`
	Reference   string          `json:"reference"`
}

func (h *CatalogHandler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	tx, err := h.svc.CreateTransaction(c.Request.Context(), model.Transaction{
		UserID:      req.UserID,
		Amount:      req.Amount,
		PhoneNumber: req.PhoneNumber,
		Type:        req.Type,
		Reference:   req.Reference,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, tx)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *CatalogHandler) setTransactionStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	tx, err := h.svc.SetTransactionStatus(c.Request.Context(), c.Param("transaction_id"), req.Status)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, tx)
}
