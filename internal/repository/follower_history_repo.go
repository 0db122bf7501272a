package repository

import (
	"Plume/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type FollowerHistoryRepo interface {
	Append(ctx context.Context, history *model.FollowerHistory) error
	// ListSince 返回用户全部账号在 since 之后的粉丝数序列，按时间升序
	ListSince(ctx context.Context, userID uint64, since time.Time) ([]*model.FollowerHistory, error)
	DeleteBefore(ctx context.Context, userID uint64, cutoff time.Time) (int64, error)
}

type followerHistoryRepoImpl struct {
	db *gorm.DB
}

func NewFollowerHistoryRepo(db *gorm.DB) FollowerHistoryRepo {
	return &followerHistoryRepoImpl{db: db}
}

func (r *followerHistoryRepoImpl) Append(ctx context.Context, history *model.FollowerHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *followerHistoryRepoImpl) ListSince(ctx context.Context, userID uint64, since time.Time) ([]*model.FollowerHistory, error) {
	rows := make([]*model.FollowerHistory, 0)
	result := r.db.WithContext(ctx).
		Where("account_id IN (?)", r.accountIDs(userID)).
		Where("recorded_at >= ?", since).
		Order("recorded_at ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *followerHistoryRepoImpl) DeleteBefore(ctx context.Context, userID uint64, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("account_id IN (?)", r.accountIDs(userID)).
		Where("recorded_at < ?", cutoff).
		Delete(&model.FollowerHistory{})
	return result.RowsAffected, result.Error
}

func (r *followerHistoryRepoImpl) accountIDs(userID uint64) *gorm.DB {
	return r.db.Table("accounts").Select("id").Where("user_id = ?", userID)
}
