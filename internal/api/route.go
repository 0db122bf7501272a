package api

import (
	"Plume/internal/api/middleware"
	"Plume/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		syncGroup := apiGroup.Group("/sync")
		syncGroup.Use(middleware.AuthMiddleware())
		{
			syncGroup.POST("/run", group.SyncHandler.RunSync)
			syncGroup.POST("/run/:account_id", group.SyncHandler.RunAccountSync)
			syncGroup.GET("/status", group.SyncHandler.GetSyncStatus)
		}

		retentionGroup := apiGroup.Group("/retention")
		retentionGroup.Use(middleware.AuthMiddleware())
		{
			retentionGroup.GET("", group.RetentionHandler.GetSettings)
			retentionGroup.PUT("", group.RetentionHandler.UpdateSettings)
			retentionGroup.POST("/cleanup", group.RetentionHandler.RunCleanup)
		}

		insightGroup := apiGroup.Group("/insights")
		insightGroup.Use(middleware.AuthMiddleware())
		{
			insightGroup.GET("", group.InsightHandler.ListInsights)
			insightGroup.POST("/generate", group.InsightHandler.GenerateInsights)
			insightGroup.POST("/:insight_id/dismiss", group.InsightHandler.DismissInsight)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(middleware.AuthMiddleware())
		{
			analyticsGroup.GET("/dashboard", group.AnalyticsHandler.GetDashboard)
			analyticsGroup.GET("/overview", group.AnalyticsHandler.GetOverview)
			analyticsGroup.GET("/engagement", group.AnalyticsHandler.GetEngagementTrend)
			analyticsGroup.GET("/content-mix", group.AnalyticsHandler.GetContentMix)
			analyticsGroup.GET("/hashtags", group.AnalyticsHandler.GetHashtagStats)
			analyticsGroup.GET("/cache/stats", group.AnalyticsHandler.GetCacheStats)
		}
	}

	return r
}
