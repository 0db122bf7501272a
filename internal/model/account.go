package model

import (
	"time"
)

// Account 已连接的社交账号模型，由外部连接流程创建，同步服务只负责更新同步簿记字段
type Account struct {
	ID                 uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID             uint64     `gorm:"not null;index:idx_user_id;column:user_id" json:"userId"`
	Username           string     `gorm:"type:varchar(64);column:username" json:"username"`
	DisplayName        string     `gorm:"type:varchar(128);column:display_name" json:"displayName"`
	FollowerCount      int        `gorm:"not null;default:0;column:follower_count" json:"followerCount"`
	FollowingCount     int        `gorm:"not null;default:0;column:following_count" json:"followingCount"`
	SyncEnabled        *bool      `gorm:"column:sync_enabled" json:"syncEnabled"` // NULL 视为启用（历史数据兼容）
	LastTweetSyncAt    *time.Time `gorm:"column:last_tweet_sync_at" json:"lastTweetSyncAt"`
	LastFollowerSyncAt *time.Time `gorm:"column:last_follower_sync_at" json:"lastFollowerSyncAt"`
	TotalTweetsSynced  int        `gorm:"not null;default:0;column:total_tweets_synced" json:"totalTweetsSynced"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}
