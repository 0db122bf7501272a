package repository

import (
	"Plume/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyStatRepo interface {
	// Upsert (account_id, stat_date) 冲突时覆写各项总量
	Upsert(ctx context.Context, stat *model.DailyStat) error
	// ListSinceDate 返回用户全部账号自 since（2006-01-02）起的每日汇总，按日期升序
	ListSinceDate(ctx context.Context, userID uint64, since string) ([]*model.DailyStat, error)
	DeleteBeforeDate(ctx context.Context, userID uint64, cutoff string) (int64, error)
}

type dailyStatRepoImpl struct {
	db *gorm.DB
}

func NewDailyStatRepo(db *gorm.DB) DailyStatRepo {
	return &dailyStatRepoImpl{db: db}
}

func (r *dailyStatRepoImpl) Upsert(ctx context.Context, stat *model.DailyStat) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "stat_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tweet_count",
			"total_likes",
			"total_retweets",
			"total_replies",
			"total_impressions",
		}),
	}).Create(stat).Error
}

func (r *dailyStatRepoImpl) ListSinceDate(ctx context.Context, userID uint64, since string) ([]*model.DailyStat, error) {
	stats := make([]*model.DailyStat, 0)
	result := r.db.WithContext(ctx).
		Where("account_id IN (?)", r.accountIDs(userID)).
		Where("stat_date >= ?", since).
		Order("stat_date ASC").
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

func (r *dailyStatRepoImpl) DeleteBeforeDate(ctx context.Context, userID uint64, cutoff string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("account_id IN (?)", r.accountIDs(userID)).
		Where("stat_date < ?", cutoff).
		Delete(&model.DailyStat{})
	return result.RowsAffected, result.Error
}

func (r *dailyStatRepoImpl) accountIDs(userID uint64) *gorm.DB {
	return r.db.Table("accounts").Select("id").Where("user_id = ?", userID)
}
