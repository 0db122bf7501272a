package model

import (
	"time"
)

// DailyStat 账号级每日互动汇总，每次推文同步结束后刷写当天一行
type DailyStat struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"id"`
	AccountID        uint64    `gorm:"not null;uniqueIndex:idx_account_date;column:account_id" json:"accountId"`
	StatDate         string    `gorm:"type:date;not null;uniqueIndex:idx_account_date;column:stat_date" json:"statDate"` // 2006-01-02
	TweetCount       int       `gorm:"not null;default:0;column:tweet_count" json:"tweetCount"`
	TotalLikes       int       `gorm:"not null;default:0;column:total_likes" json:"totalLikes"`
	TotalRetweets    int       `gorm:"not null;default:0;column:total_retweets" json:"totalRetweets"`
	TotalReplies     int       `gorm:"not null;default:0;column:total_replies" json:"totalReplies"`
	TotalImpressions int       `gorm:"not null;default:0;column:total_impressions" json:"totalImpressions"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}
