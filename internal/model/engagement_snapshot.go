package model

import (
	"time"
)

// EngagementSnapshot 推文互动数据的每日快照，同一推文每天至多一条，只追加不更新
type EngagementSnapshot struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"id"`
	TweetID         uint64    `gorm:"not null;uniqueIndex:idx_tweet_date;column:tweet_id" json:"tweetId"`
	SnapshotDate    string    `gorm:"type:date;not null;uniqueIndex:idx_tweet_date;column:snapshot_date" json:"snapshotDate"` // 2006-01-02
	LikeCount       int       `gorm:"not null;default:0;column:like_count" json:"likeCount"`
	RetweetCount    int       `gorm:"not null;default:0;column:retweet_count" json:"retweetCount"`
	ReplyCount      int       `gorm:"not null;default:0;column:reply_count" json:"replyCount"`
	ImpressionCount int       `gorm:"not null;default:0;column:impression_count" json:"impressionCount"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (EngagementSnapshot) TableName() string {
	return "engagement_snapshots"
}
