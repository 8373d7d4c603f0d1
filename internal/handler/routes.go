package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zimstream/stream-ops-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(
	r *gin.Engine,
	store Pinger,
	standingsSvc service.StandingsService,
	refresher *service.Refresher,
	analyticsSvc service.AnalyticsService,
	catalogSvc service.CatalogService,
	seedSvc service.SeedService,
) {
	h := NewHealthHandler(store)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewStandingsHandler(standingsSvc, refresher).Register(api)
		NewAnalyticsHandler(analyticsSvc, seedSvc).Register(api)
		NewCatalogHandler(catalogSvc).Register(api)
	}
}
