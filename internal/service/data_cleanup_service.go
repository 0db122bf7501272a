package service

import (
	"Plume/internal/api/dto"
	"Plume/internal/model"
	"Plume/internal/pkg/util"
	"Plume/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

type DataCleanupService interface {
	// RunGlobalCleanup 遍历开启自动清理的用户，单个用户失败不中断批处理
	RunGlobalCleanup(ctx context.Context) (*dto.CleanupStats, error)
	// CleanupUserData 按该用户的保留窗口删除各历史表的过期数据，窗口为 0 的表跳过
	CleanupUserData(ctx context.Context, userID uint64) (*dto.CleanupStats, error)
	// GetUserRetentionSettings 不存在时按默认值懒创建
	GetUserRetentionSettings(ctx context.Context, userID uint64) (*dto.RetentionSettingsDTO, error)
	// UpdateUserRetentionSettings 稀疏更新，只改请求里给出的字段
	UpdateUserRetentionSettings(ctx context.Context, userID uint64, patch *dto.RetentionPatchDTO) (*dto.RetentionSettingsDTO, error)
}

type dataCleanupServiceImpl struct {
	retentionRepo repository.RetentionRepo
	snapshotRepo  repository.SnapshotRepo
	historyRepo   repository.FollowerHistoryRepo
	dailyStatRepo repository.DailyStatRepo
	analyticsRepo repository.ContentAnalyticsRepo
	insightRepo   repository.InsightRepo
	now           func() time.Time
}

func NewDataCleanupService(
	retentionRepo repository.RetentionRepo,
	snapshotRepo repository.SnapshotRepo,
	historyRepo repository.FollowerHistoryRepo,
	dailyStatRepo repository.DailyStatRepo,
	analyticsRepo repository.ContentAnalyticsRepo,
	insightRepo repository.InsightRepo,
) DataCleanupService {
	return &dataCleanupServiceImpl{
		retentionRepo: retentionRepo,
		snapshotRepo:  snapshotRepo,
		historyRepo:   historyRepo,
		dailyStatRepo: dailyStatRepo,
		analyticsRepo: analyticsRepo,
		insightRepo:   insightRepo,
		now:           time.Now,
	}
}

func (s *dataCleanupServiceImpl) RunGlobalCleanup(ctx context.Context) (*dto.CleanupStats, error) {
	userIDs, err := s.retentionRepo.ListAutoCleanupUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	total := &dto.CleanupStats{}
	for _, userID := range userIDs {
		stats, cleanupErr := s.CleanupUserData(ctx, userID)
		if cleanupErr != nil {
			log.ErrorContext(ctx, "user cleanup failed", "user_id", userID, "err", cleanupErr)
			continue
		}
		total.UsersProcessed++
		total.SnapshotsDeleted += stats.SnapshotsDeleted
		total.FollowerHistoryDeleted += stats.FollowerHistoryDeleted
		total.DailyStatsDeleted += stats.DailyStatsDeleted
		total.ContentAnalyticsDeleted += stats.ContentAnalyticsDeleted
		total.InsightsDeleted += stats.InsightsDeleted
	}

	log.InfoContext(ctx, "global cleanup finished",
		"users_processed", total.UsersProcessed,
		"snapshots_deleted", total.SnapshotsDeleted,
		"follower_history_deleted", total.FollowerHistoryDeleted,
		"daily_stats_deleted", total.DailyStatsDeleted,
		"content_analytics_deleted", total.ContentAnalyticsDeleted,
		"insights_deleted", total.InsightsDeleted)

	return total, nil
}

func (s *dataCleanupServiceImpl) CleanupUserData(ctx context.Context, userID uint64) (*dto.CleanupStats, error) {
	settings, err := s.getOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &dto.CleanupStats{UsersProcessed: 1}

	if settings.SnapshotRetentionDays > 0 {
		cutoff := util.DateString(now.AddDate(0, 0, -settings.SnapshotRetentionDays))
		if stats.SnapshotsDeleted, err = s.snapshotRepo.DeleteBeforeDate(ctx, userID, cutoff); err != nil {
			return nil, err
		}
	}

	if settings.FollowerHistoryDays > 0 {
		cutoff := now.AddDate(0, 0, -settings.FollowerHistoryDays)
		if stats.FollowerHistoryDeleted, err = s.historyRepo.DeleteBefore(ctx, userID, cutoff); err != nil {
			return nil, err
		}
	}

	if settings.DailyStatsDays > 0 {
		cutoff := util.DateString(now.AddDate(0, 0, -settings.DailyStatsDays))
		if stats.DailyStatsDeleted, err = s.dailyStatRepo.DeleteBeforeDate(ctx, userID, cutoff); err != nil {
			return nil, err
		}
	}

	if settings.ContentAnalyticsDays > 0 {
		cutoff := now.AddDate(0, 0, -settings.ContentAnalyticsDays)
		if stats.ContentAnalyticsDeleted, err = s.analyticsRepo.DeleteBefore(ctx, userID, cutoff); err != nil {
			return nil, err
		}
	}

	// 洞察不看保留窗口：过期或被忽略的一律删除
	if stats.InsightsDeleted, err = s.insightRepo.DeleteExpiredOrDismissed(ctx, userID, now); err != nil {
		return nil, err
	}

	if err = s.retentionRepo.TouchCleanup(ctx, userID, now); err != nil {
		log.ErrorContext(ctx, "update last_cleanup_at failed", "user_id", userID, "err", err)
	}

	return stats, nil
}

func (s *dataCleanupServiceImpl) GetUserRetentionSettings(ctx context.Context, userID uint64) (*dto.RetentionSettingsDTO, error) {
	settings, err := s.getOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &dto.RetentionSettingsDTO{}
	if err = copier.Copy(res, settings); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *dataCleanupServiceImpl) UpdateUserRetentionSettings(ctx context.Context, userID uint64, patch *dto.RetentionPatchDTO) (*dto.RetentionSettingsDTO, error) {
	if _, err := s.getOrCreateSettings(ctx, userID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if patch.SnapshotRetentionDays != nil {
		fields["snapshot_retention_days"] = *patch.SnapshotRetentionDays
	}
	if patch.ActiveTweetWindowDays != nil {
		fields["active_tweet_window_days"] = *patch.ActiveTweetWindowDays
	}
	if patch.FollowerHistoryDays != nil {
		fields["follower_history_days"] = *patch.FollowerHistoryDays
	}
	if patch.DailyStatsDays != nil {
		fields["daily_stats_days"] = *patch.DailyStatsDays
	}
	if patch.ContentAnalyticsDays != nil {
		fields["content_analytics_days"] = *patch.ContentAnalyticsDays
	}
	if patch.AutoCleanupEnabled != nil {
		fields["auto_cleanup_enabled"] = *patch.AutoCleanupEnabled
	}

	if len(fields) > 0 {
		if err := s.retentionRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return s.GetUserRetentionSettings(ctx, userID)
}

func (s *dataCleanupServiceImpl) getOrCreateSettings(ctx context.Context, userID uint64) (*model.DataRetentionSettings, error) {
	settings, err := s.retentionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &model.DataRetentionSettings{
		UserID:                userID,
		SnapshotRetentionDays: 90,
		ActiveTweetWindowDays: 30,
		FollowerHistoryDays:   365,
		DailyStatsDays:        180,
		ContentAnalyticsDays:  180,
		AutoCleanupEnabled:    true,
	}
	if err = s.retentionRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
