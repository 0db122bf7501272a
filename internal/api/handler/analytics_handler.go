package handler

import (
	"Plume/internal/pkg/cache"
	"Plume/internal/pkg/response"
	"Plume/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc   service.AnalyticsService
	analyticsCache *cache.AnalyticsCache
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService, analyticsCache *cache.AnalyticsCache) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc:   analyticsSvc,
		analyticsCache: analyticsCache,
	}
}

func (s *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID := c.GetUint64("user_id")

	dashboard, err := s.analyticsSvc.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

func (s *AnalyticsHandler) GetOverview(c *gin.Context) {
	userID := c.GetUint64("user_id")

	overview, err := s.analyticsSvc.GetOverview(c.Request.Context(), userID, queryDays(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

func (s *AnalyticsHandler) GetEngagementTrend(c *gin.Context) {
	userID := c.GetUint64("user_id")

	trend, err := s.analyticsSvc.GetEngagementTrend(c.Request.Context(), userID, queryDays(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

func (s *AnalyticsHandler) GetContentMix(c *gin.Context) {
	userID := c.GetUint64("user_id")

	mix, err := s.analyticsSvc.GetContentMix(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, mix)
}

func (s *AnalyticsHandler) GetHashtagStats(c *gin.Context) {
	userID := c.GetUint64("user_id")

	stats, err := s.analyticsSvc.GetHashtagStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// GetCacheStats 运维接口，观察缓存命中情况
func (s *AnalyticsHandler) GetCacheStats(c *gin.Context) {
	response.Success(c, s.analyticsCache.GetStats())
}

func queryDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		return 30
	}
	return days
}
