package repository

import (
	"Plume/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncStatusRepo interface {
	// Upsert 每次同步尝试后刷写，account_id 冲突时原地更新
	Upsert(ctx context.Context, status *model.AccountSyncStatus) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.AccountSyncStatus, error)
}

type syncStatusRepoImpl struct {
	db *gorm.DB
}

func NewSyncStatusRepo(db *gorm.DB) SyncStatusRepo {
	return &syncStatusRepoImpl{db: db}
}

func (r *syncStatusRepoImpl) Upsert(ctx context.Context, status *model.AccountSyncStatus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"error_message",
			"tweets_synced",
			"tweets_failed",
			"last_sync_at",
			"next_sync_at",
		}),
	}).Create(status).Error
}

func (r *syncStatusRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.AccountSyncStatus, error) {
	statuses := make([]*model.AccountSyncStatus, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("account_id ASC").
		Find(&statuses)
	if result.Error != nil {
		return nil, result.Error
	}
	return statuses, nil
}
