package handler

import (
	"Plume/internal/pkg/response"
	"Plume/internal/repository"
	"Plume/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncSvc     service.AccountSyncService
	accountRepo repository.AccountRepo
}

func NewSyncHandler(syncSvc service.AccountSyncService, accountRepo repository.AccountRepo) *SyncHandler {
	return &SyncHandler{
		syncSvc:     syncSvc,
		accountRepo: accountRepo,
	}
}

// RunSync 手动触发当前用户全部账号的同步
func (s *SyncHandler) RunSync(c *gin.Context) {
	userID := c.GetUint64("user_id")

	stats, err := s.syncSvc.SyncUserAccounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// RunAccountSync 手动触发单个账号的同步
func (s *SyncHandler) RunAccountSync(c *gin.Context) {
	userID := c.GetUint64("user_id")

	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	account, err := s.accountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil || account.UserID != userID {
		response.Error(c, service.ErrAccountNotFound)
		return
	}

	result, err := s.syncSvc.SyncAccount(c.Request.Context(), account, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *SyncHandler) GetSyncStatus(c *gin.Context) {
	userID := c.GetUint64("user_id")

	statuses, err := s.syncSvc.GetUserAccountsSyncStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, statuses)
}
