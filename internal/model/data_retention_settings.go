package model

import (
	"time"
)

// DataRetentionSettings 每个用户一行，控制各历史表的保留窗口（天），0 表示该表不清理
type DataRetentionSettings struct {
	ID                   uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID               uint64     `gorm:"not null;uniqueIndex:idx_user;column:user_id" json:"userId"`
	SnapshotRetentionDays int       `gorm:"not null;default:90;column:snapshot_retention_days" json:"snapshotRetentionDays"`
	ActiveTweetWindowDays int       `gorm:"not null;default:30;column:active_tweet_window_days" json:"activeTweetWindowDays"`
	FollowerHistoryDays   int       `gorm:"not null;default:365;column:follower_history_days" json:"followerHistoryDays"`
	DailyStatsDays        int       `gorm:"not null;default:180;column:daily_stats_days" json:"dailyStatsDays"`
	ContentAnalyticsDays  int       `gorm:"not null;default:180;column:content_analytics_days" json:"contentAnalyticsDays"`
	AutoCleanupEnabled    bool      `gorm:"not null;default:1;column:auto_cleanup_enabled" json:"autoCleanupEnabled"`
	LastCleanupAt         *time.Time `gorm:"column:last_cleanup_at" json:"lastCleanupAt"`
	CreatedAt             time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt             time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (DataRetentionSettings) TableName() string {
	return "data_retention_settings"
}
