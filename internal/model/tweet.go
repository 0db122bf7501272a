package model

import (
	"time"
)

// Tweet 已发布推文及其互动计数，计数由同步服务周期性覆写
type Tweet struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"id"`
	AccountID       uint64     `gorm:"not null;index:idx_account_id;column:account_id" json:"accountId"`
	ExternalID      string     `gorm:"type:varchar(32);index:idx_external_id;column:external_id" json:"externalId"` // 外部平台推文 ID，为空表示尚未发布成功
	Content         string     `gorm:"type:text;column:content" json:"content"`
	Status          string     `gorm:"type:varchar(16);not null;default:'posted';column:status" json:"status"`
	LikeCount       int        `gorm:"not null;default:0;column:like_count" json:"likeCount"`
	RetweetCount    int        `gorm:"not null;default:0;column:retweet_count" json:"retweetCount"`
	ReplyCount      int        `gorm:"not null;default:0;column:reply_count" json:"replyCount"`
	ImpressionCount int        `gorm:"not null;default:0;column:impression_count" json:"impressionCount"`
	MediaURLs       string     `gorm:"type:text;column:media_urls" json:"mediaUrls"` // JSON 数组
	PostedAt        time.Time  `gorm:"not null;index:idx_posted_at;column:posted_at" json:"postedAt"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       *time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Tweet) TableName() string {
	return "tweets"
}
