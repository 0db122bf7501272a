package model

import (
	"time"
)

// FollowerHistory 粉丝数时间序列，每次成功的粉丝同步追加一条
type FollowerHistory struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"id"`
	AccountID      uint64    `gorm:"not null;index:idx_account_recorded;column:account_id" json:"accountId"`
	FollowerCount  int       `gorm:"not null;default:0;column:follower_count" json:"followerCount"`
	FollowingCount int       `gorm:"not null;default:0;column:following_count" json:"followingCount"`
	RecordedAt     time.Time `gorm:"not null;index:idx_account_recorded;column:recorded_at" json:"recordedAt"`
}

func (FollowerHistory) TableName() string {
	return "follower_history"
}
