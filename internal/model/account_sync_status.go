package model

import (
	"time"
)

// AccountSyncStatus 每个账号唯一一行，记录最近一次同步的结果
type AccountSyncStatus struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	AccountID    uint64    `gorm:"not null;uniqueIndex:idx_account;column:account_id" json:"accountId"`
	UserID       uint64    `gorm:"not null;index:idx_user;column:user_id" json:"userId"`
	Status       string    `gorm:"type:varchar(16);not null;column:status" json:"status"` // success / partial / failed
	ErrorMessage string    `gorm:"type:varchar(512);column:error_message" json:"errorMessage"`
	TweetsSynced int       `gorm:"not null;default:0;column:tweets_synced" json:"tweetsSynced"`
	TweetsFailed int       `gorm:"not null;default:0;column:tweets_failed" json:"tweetsFailed"`
	LastSyncAt   time.Time `gorm:"column:last_sync_at" json:"lastSyncAt"`
	NextSyncAt   time.Time `gorm:"column:next_sync_at" json:"nextSyncAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (AccountSyncStatus) TableName() string {
	return "account_sync_statuses"
}
