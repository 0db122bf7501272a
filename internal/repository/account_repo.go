package repository

import (
	"Plume/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AccountRepo interface {
	GetByID(ctx context.Context, accountID uint64) (*model.Account, error)
	// GetSyncEnabledByUser 返回 sync_enabled 为真或为 NULL（历史数据）的账号
	GetSyncEnabledByUser(ctx context.Context, userID uint64) ([]*model.Account, error)
	// ListSyncUserIDs 返回至少拥有一个可同步账号的用户 ID，供定时任务遍历
	ListSyncUserIDs(ctx context.Context) ([]uint64, error)
	UpdateFollowerCounts(ctx context.Context, accountID uint64, followers, following int, at time.Time) error
	// FinishTweetSync 推文同步收尾：刷新 last_tweet_sync_at 并累加 total_tweets_synced
	FinishTweetSync(ctx context.Context, accountID uint64, synced int, at time.Time) error
}

type accountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &accountRepoImpl{db: db}
}

func (r *accountRepoImpl) GetByID(ctx context.Context, accountID uint64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("id = ?", accountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepoImpl) GetSyncEnabledByUser(ctx context.Context, userID uint64) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("sync_enabled IS NULL OR sync_enabled = ?", true).
		Order("id ASC").
		Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}

func (r *accountRepoImpl) ListSyncUserIDs(ctx context.Context) ([]uint64, error) {
	userIDs := make([]uint64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Distinct("user_id").
		Where("sync_enabled IS NULL OR sync_enabled = ?", true).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *accountRepoImpl) UpdateFollowerCounts(ctx context.Context, accountID uint64, followers, following int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"follower_count":        followers,
			"following_count":       following,
			"last_follower_sync_at": at,
		}).Error
}

func (r *accountRepoImpl) FinishTweetSync(ctx context.Context, accountID uint64, synced int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"last_tweet_sync_at":  at,
			"total_tweets_synced": gorm.Expr("total_tweets_synced + ?", synced),
		}).Error
}
