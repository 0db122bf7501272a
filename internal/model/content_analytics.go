package model

import (
	"time"
)

// ContentAnalytics 推文内容特征，每次推文同步成功后重算并 Upsert
type ContentAnalytics struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"id"`
	TweetID         uint64    `gorm:"not null;uniqueIndex:idx_tweet;column:tweet_id" json:"tweetId"`
	AccountID       uint64    `gorm:"not null;index:idx_account;column:account_id" json:"accountId"`
	UserID          uint64    `gorm:"not null;index:idx_user;column:user_id" json:"userId"`
	HasImage        bool      `gorm:"not null;default:0;column:has_image" json:"hasImage"`
	HasVideo        bool      `gorm:"not null;default:0;column:has_video" json:"hasVideo"`
	HasGif          bool      `gorm:"not null;default:0;column:has_gif" json:"hasGif"`
	Hashtags        string    `gorm:"type:text;column:hashtags" json:"hashtags"` // JSON 数组
	MentionCount    int       `gorm:"not null;default:0;column:mention_count" json:"mentionCount"`
	CharCount       int       `gorm:"not null;default:0;column:char_count" json:"charCount"`
	PostHour        int       `gorm:"not null;default:0;column:post_hour" json:"postHour"`
	PostDay         int       `gorm:"not null;default:0;column:post_day" json:"postDay"` // 0 = 周日
	EngagementScore float64   `gorm:"not null;default:0;column:engagement_score" json:"engagementScore"`
	ComputedAt      time.Time `gorm:"column:computed_at" json:"computedAt"`
}

func (ContentAnalytics) TableName() string {
	return "content_analytics"
}
