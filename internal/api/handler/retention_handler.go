package handler

import (
	"Plume/internal/api/dto"
	"Plume/internal/pkg/response"
	"Plume/internal/service"

	"github.com/gin-gonic/gin"
)

type RetentionHandler struct {
	cleanupSvc service.DataCleanupService
}

func NewRetentionHandler(cleanupSvc service.DataCleanupService) *RetentionHandler {
	return &RetentionHandler{
		cleanupSvc: cleanupSvc,
	}
}

func (s *RetentionHandler) GetSettings(c *gin.Context) {
	userID := c.GetUint64("user_id")

	settings, err := s.cleanupSvc.GetUserRetentionSettings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

func (s *RetentionHandler) UpdateSettings(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var patch dto.RetentionPatchDTO
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, err)
		return
	}

	settings, err := s.cleanupSvc.UpdateUserRetentionSettings(c.Request.Context(), userID, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// RunCleanup 手动触发当前用户的数据清理
func (s *RetentionHandler) RunCleanup(c *gin.Context) {
	userID := c.GetUint64("user_id")

	stats, err := s.cleanupSvc.CleanupUserData(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
