package handler

import (
	"Plume/internal/pkg/cache"
	"Plume/internal/pkg/response"
	"Plume/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InsightHandler struct {
	insightSvc     service.InsightService
	analyticsCache *cache.AnalyticsCache
}

func NewInsightHandler(insightSvc service.InsightService, analyticsCache *cache.AnalyticsCache) *InsightHandler {
	return &InsightHandler{
		insightSvc:     insightSvc,
		analyticsCache: analyticsCache,
	}
}

func (s *InsightHandler) ListInsights(c *gin.Context) {
	userID := c.GetUint64("user_id")

	insights, err := s.insightSvc.GetActiveInsights(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, insights)
}

func (s *InsightHandler) DismissInsight(c *gin.Context) {
	userID := c.GetUint64("user_id")

	insightID, err := strconv.ParseUint(c.Param("insight_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.insightSvc.DismissInsight(c.Request.Context(), userID, insightID); err != nil {
		response.Error(c, err)
		return
	}

	// 仪表盘上的活跃洞察数会变化
	s.analyticsCache.InvalidateUser(userID, cache.TypeDashboard)
	response.Success(c, nil)
}

// GenerateInsights 手动触发当前用户的洞察生成
func (s *InsightHandler) GenerateInsights(c *gin.Context) {
	userID := c.GetUint64("user_id")

	result, err := s.insightSvc.GenerateAllInsights(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	s.analyticsCache.InvalidateUser(userID)
	response.Success(c, result)
}
