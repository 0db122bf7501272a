package repository

import (
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EngagementTotals 账号当前所有已发布推文的互动总量
type EngagementTotals struct {
	TweetCount       int
	TotalLikes       int
	TotalRetweets    int
	TotalReplies     int
	TotalImpressions int
}

type TweetRepo interface {
	// GetPostedSince 返回账号在 since 之后发布、状态为 posted 的推文，新的在前
	GetPostedSince(ctx context.Context, accountID uint64, since time.Time, limit int) ([]*model.Tweet, error)
	// UpdateEngagement 覆写互动计数与媒体列表，同时刷新 updated_at
	UpdateEngagement(ctx context.Context, tweetID uint64, likes, retweets, replies, impressions int, mediaURLs string) error
	MarkDeleted(ctx context.Context, tweetID uint64) error
	// LatestPostedAt 账号最近一条已发布推文的时间，从未发布返回 nil
	LatestPostedAt(ctx context.Context, accountID uint64) (*time.Time, error)
	EngagementTotals(ctx context.Context, accountID uint64) (*EngagementTotals, error)
}

type tweetRepoImpl struct {
	db *gorm.DB
}

func NewTweetRepo(db *gorm.DB) TweetRepo {
	return &tweetRepoImpl{db: db}
}

func (r *tweetRepoImpl) GetPostedSince(ctx context.Context, accountID uint64, since time.Time, limit int) ([]*model.Tweet, error) {
	tweets := make([]*model.Tweet, 0)
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("status = ?", consts.TweetStatusPosted).
		Where("posted_at >= ?", since).
		Order("posted_at DESC").
		Limit(limit).
		Find(&tweets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tweets, nil
}

func (r *tweetRepoImpl) UpdateEngagement(ctx context.Context, tweetID uint64, likes, retweets, replies, impressions int, mediaURLs string) error {
	return r.db.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id = ?", tweetID).
		Updates(map[string]any{
			"like_count":       likes,
			"retweet_count":    retweets,
			"reply_count":      replies,
			"impression_count": impressions,
			"media_urls":       mediaURLs,
			"updated_at":       time.Now(),
		}).Error
}

func (r *tweetRepoImpl) MarkDeleted(ctx context.Context, tweetID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id = ?", tweetID).
		Updates(map[string]any{
			"status":     consts.TweetStatusDeleted,
			"updated_at": time.Now(),
		}).Error
}

func (r *tweetRepoImpl) LatestPostedAt(ctx context.Context, accountID uint64) (*time.Time, error) {
	var tweet model.Tweet
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("status = ?", consts.TweetStatusPosted).
		Order("posted_at DESC").
		First(&tweet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tweet.PostedAt, nil
}

func (r *tweetRepoImpl) EngagementTotals(ctx context.Context, accountID uint64) (*EngagementTotals, error) {
	var totals EngagementTotals
	err := r.db.WithContext(ctx).
		Model(&model.Tweet{}).
		Select(
			"COUNT(*) AS tweet_count",
			"COALESCE(SUM(like_count), 0) AS total_likes",
			"COALESCE(SUM(retweet_count), 0) AS total_retweets",
			"COALESCE(SUM(reply_count), 0) AS total_replies",
			"COALESCE(SUM(impression_count), 0) AS total_impressions",
		).
		Where("account_id = ?", accountID).
		Where("status = ?", consts.TweetStatusPosted).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
