package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/service"
	"github.com/zimstream/stream-ops-service/pkg/response"
)

type StandingsHandler struct {
	svc   service.StandingsService
	cache *service.Refresher
}

func NewStandingsHandler(svc service.StandingsService, cache *service.Refresher) *StandingsHandler {
	return &StandingsHandler{svc: svc, cache: cache}
}

func (h *StandingsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/standings")
	{
		g.GET("", h.list)
		g.GET("/:league_id", h.byLeague)
		g.POST("/refresh", h.refresh)
	}
}

type standingsResponse struct {
	Standings   map[string][]model.StandingsEntry `json:"standings"`
	RefreshedAt *time.Time                        `json:"refreshed_at,omitempty"`
	Cached      bool                              `json:"cached"`
}

// list serves every league's table from the refresher cache, computing on
// demand only when the cache has never been filled.
func (h *StandingsHandler) list(c *gin.Context) {
	if tables, at, ok := h.cache.Latest(); ok {
		response.WriteData(c, http.StatusOK, standingsResponse{Standings: tables, RefreshedAt: &at, Cached: true})
		return
	}
	tables, err := h.svc.GetStandings(c.Request.Context(), "")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, standingsResponse{Standings: tables})
}

// byLeague always recomputes from a fresh snapshot narrowed to one league.
func (h *StandingsHandler) byLeague(c *gin.Context) {
	leagueID := c.Param("league_id")
	tables, err := h.svc.GetStandings(c.Request.Context(), leagueID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	table, ok := tables[leagueID]
	if !ok {
		// No finished matches yet; an empty table is a valid answer.
		table = []model.StandingsEntry{}
	}
	response.WriteData(c, http.StatusOK, gin.H{"league_id": leagueID, "standings": table})
}

func (h *StandingsHandler) refresh(c *gin.Context) {
	if err := h.cache.Refresh(c.Request.Context()); err != nil {
		response.WriteError(c, err)
		return
	}
	tables, at, _ := h.cache.Latest()
	response.WriteData(c, http.StatusOK, standingsResponse{Standings: tables, RefreshedAt: &at, Cached: true})
}
