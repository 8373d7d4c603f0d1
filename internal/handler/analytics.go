package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/service"
	"github.com/zimstream/stream-ops-service/pkg/response"
)

type AnalyticsHandler struct {
	svc  service.AnalyticsService
	seed service.SeedService
}

func NewAnalyticsHandler(svc service.AnalyticsService, seed service.SeedService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, seed: seed}
}

func (h *AnalyticsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/analytics")
	{
		g.GET("/report", h.report)
		g.GET("/overview", h.overview)
		g.GET("/revenue", h.revenue)
		g.POST("/seed", h.seedData)
	}
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.startSession)
		sessions.POST("/:session_id/end", h.endSession)
	}
}

// report recomputes every derived view from a fresh snapshot.
func (h *AnalyticsHandler) report(c *gin.Context) {
	report, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, report)
}

// overview serves only the KPI record for dashboards that don't need the
// full report.
func (h *AnalyticsHandler) overview(c *gin.Context) {
	report, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, report.Overview)
}

// revenue serves the billing rollup over transaction records.
func (h *AnalyticsHandler) revenue(c *gin.Context) {
	summary, err := h.svc.Revenue(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, summary)
}

func (h *AnalyticsHandler) seedData(c *gin.Context) {
	summary, err := h.seed.SeedAnalytics(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, summary)
}

type startSessionRequest struct {
	ChannelID  string `json:"channel_id"`
	UserID     string `json:"user_id"`
	DeviceType string `json:"device_type"`
	Location   string `json:"location"`
}

func (h *AnalyticsHandler) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	session := model.ViewerSession{
		ChannelID:  req.ChannelID,
		UserID:     req.UserID,
		DeviceType: req.DeviceType,
		Location:   req.Location,
		StartTime:  time.Now().UTC(),
	}
	out, err := h.svc.StartSession(c.Request.Context(), session)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, out)
}

func (h *AnalyticsHandler) endSession(c *gin.Context) {
	out, err := h.svc.EndSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
