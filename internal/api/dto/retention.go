package dto

import "time"

// RetentionSettingsDTO 保留策略查询返回
type RetentionSettingsDTO struct {
	SnapshotRetentionDays int        `json:"snapshot_retention_days"`
	ActiveTweetWindowDays int        `json:"active_tweet_window_days"`
	FollowerHistoryDays   int        `json:"follower_history_days"`
	DailyStatsDays        int        `json:"daily_stats_days"`
	ContentAnalyticsDays  int        `json:"content_analytics_days"`
	AutoCleanupEnabled    bool       `json:"auto_cleanup_enabled"`
	LastCleanupAt         *time.Time `json:"last_cleanup_at,omitempty"`
}

// RetentionPatchDTO 稀疏更新：只有给出的字段会被更新
type RetentionPatchDTO struct {
	SnapshotRetentionDays *int  `json:"snapshot_retention_days,omitempty" binding:"omitempty,min=0,max=3650"`
	ActiveTweetWindowDays *int  `json:"active_tweet_window_days,omitempty" binding:"omitempty,min=0,max=3650"`
	FollowerHistoryDays   *int  `json:"follower_history_days,omitempty" binding:"omitempty,min=0,max=3650"`
	DailyStatsDays        *int  `json:"daily_stats_days,omitempty" binding:"omitempty,min=0,max=3650"`
	ContentAnalyticsDays  *int  `json:"content_analytics_days,omitempty" binding:"omitempty,min=0,max=3650"`
	AutoCleanupEnabled    *bool `json:"auto_cleanup_enabled,omitempty"`
}

// CleanupStats 清理任务按表的删除计数
type CleanupStats struct {
	UsersProcessed           int   `json:"users_processed"`
	SnapshotsDeleted         int64 `json:"snapshots_deleted"`
	FollowerHistoryDeleted   int64 `json:"follower_history_deleted"`
	DailyStatsDeleted        int64 `json:"daily_stats_deleted"`
	ContentAnalyticsDeleted  int64 `json:"content_analytics_deleted"`
	InsightsDeleted          int64 `json:"insights_deleted"`
}
