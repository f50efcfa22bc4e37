package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/metrics"
)

// Services bundles what the handlers call.
type Services struct {
	Programs  service.ProgramService
	Imports   service.ImportService
	Sessions  service.SessionService
	Analytics service.AnalyticsService
	Catalog   repository.ExerciseCatalog
}

// SetupRoutes registers every route on router. registry may be nil, in
// which case /metrics is not served.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	services Services,
	metricsManager *metrics.Manager,
	registry *prometheus.Registry,
) {
	programHandler := NewProgramHandler(services.Programs, services.Imports)
	sessionHandler := NewSessionHandler(services.Sessions)
	analyticsHandler := NewAnalyticsHandler(services.Analytics)
	exerciseHandler := NewExerciseHandler(services.Catalog)

	router.Use(PanicRecovery(metricsManager))
	if metricsManager != nil {
		router.Use(RequestMetrics(metricsManager))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			ownerID, ok := mustOwner(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"ownerId": ownerID})
		})

		protected.GET("/exercises", exerciseHandler.ListExercises)

		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.POST("/import", programHandler.ImportPrograms)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:planId", programHandler.GetProgram)
			programGroup.PUT("/:planId/structure", programHandler.ReplaceStructure)
			programGroup.POST("/:planId/activate", programHandler.ActivateProgram)
			programGroup.DELETE("/:planId", programHandler.DeleteProgram)
			programGroup.GET("/:planId/export", programHandler.ExportProgram)
			programGroup.POST("/:planId/export/archive", programHandler.ArchiveExport)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("/:sessionId", sessionHandler.GetSession)
			sessionGroup.POST("/:sessionId/pause", sessionHandler.PauseSession)
			sessionGroup.POST("/:sessionId/resume", sessionHandler.ResumeSession)
			sessionGroup.POST("/:sessionId/finish", sessionHandler.FinishSession)
			sessionGroup.POST("/:sessionId/abandon", sessionHandler.AbandonSession)
			sessionGroup.POST("/:sessionId/sets/toggle", sessionHandler.ToggleSet)
			sessionGroup.PATCH("/:sessionId/sets", sessionHandler.UpdateSet)
		}

		analyticsGroup := protected.Group("/analytics")
		{
			analyticsGroup.GET("/dashboard", analyticsHandler.GetDashboard)
			analyticsGroup.GET("/history", analyticsHandler.GetHistory)
		}
	}
}
