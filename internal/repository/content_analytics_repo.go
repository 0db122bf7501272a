package repository

import (
	"Plume/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimeBucket 按 (post_hour, post_day) 分组的表现聚合
type TimeBucket struct {
	PostHour      int
	PostDay       int
	SampleCount   int
	AvgEngagement float64
}

// ContentTypeStat 按派生内容类型分组的表现聚合
type ContentTypeStat struct {
	ContentType   string
	SampleCount   int
	AvgEngagement float64
}

// HashtagRow 话题标签聚合的原始行，标签列表在应用侧解析
type HashtagRow struct {
	Hashtags        string
	EngagementScore float64
}

type ContentAnalyticsRepo interface {
	// Upsert tweet_id 冲突时重算覆写
	Upsert(ctx context.Context, analytics *model.ContentAnalytics) error
	TimeBuckets(ctx context.Context, userID uint64) ([]*TimeBucket, error)
	ContentTypeStats(ctx context.Context, userID uint64) ([]*ContentTypeStat, error)
	HashtagRows(ctx context.Context, userID uint64) ([]*HashtagRow, error)
	DeleteBefore(ctx context.Context, userID uint64, cutoff time.Time) (int64, error)
}

type contentAnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewContentAnalyticsRepo(db *gorm.DB) ContentAnalyticsRepo {
	return &contentAnalyticsRepoImpl{db: db}
}

func (r *contentAnalyticsRepoImpl) Upsert(ctx context.Context, analytics *model.ContentAnalytics) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tweet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"has_image",
			"has_video",
			"has_gif",
			"hashtags",
			"mention_count",
			"char_count",
			"post_hour",
			"post_day",
			"engagement_score",
			"computed_at",
		}),
	}).Create(analytics).Error
}

func (r *contentAnalyticsRepoImpl) TimeBuckets(ctx context.Context, userID uint64) ([]*TimeBucket, error) {
	buckets := make([]*TimeBucket, 0)
	err := r.db.WithContext(ctx).
		Model(&model.ContentAnalytics{}).
		Select(
			"post_hour",
			"post_day",
			"COUNT(*) AS sample_count",
			"AVG(engagement_score) AS avg_engagement",
		).
		Where("user_id = ?", userID).
		Group("post_hour, post_day").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// ContentTypeStats 派生类型优先级：video > image > gif > text
func (r *contentAnalyticsRepoImpl) ContentTypeStats(ctx context.Context, userID uint64) ([]*ContentTypeStat, error) {
	stats := make([]*ContentTypeStat, 0)
	err := r.db.WithContext(ctx).
		Model(&model.ContentAnalytics{}).
		Select(
			"CASE WHEN has_video = 1 THEN 'video' WHEN has_image = 1 THEN 'image' WHEN has_gif = 1 THEN 'gif' ELSE 'text' END AS content_type",
			"COUNT(*) AS sample_count",
			"AVG(engagement_score) AS avg_engagement",
		).
		Where("user_id = ?", userID).
		Group("content_type").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *contentAnalyticsRepoImpl) HashtagRows(ctx context.Context, userID uint64) ([]*HashtagRow, error) {
	rows := make([]*HashtagRow, 0)
	err := r.db.WithContext(ctx).
		Model(&model.ContentAnalytics{}).
		Select("hashtags", "engagement_score").
		Where("user_id = ?", userID).
		Where("hashtags IS NOT NULL AND hashtags != '' AND hashtags != '[]'").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentAnalyticsRepoImpl) DeleteBefore(ctx context.Context, userID uint64, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("computed_at < ?", cutoff).
		Delete(&model.ContentAnalytics{})
	return result.RowsAffected, result.Error
}
