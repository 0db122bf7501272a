package repository

import (
	"Plume/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type RetentionRepo interface {
	GetByUser(ctx context.Context, userID uint64) (*model.DataRetentionSettings, error)
	Create(ctx context.Context, settings *model.DataRetentionSettings) error
	// UpdateFields 稀疏更新：只更新调用方提供的列
	UpdateFields(ctx context.Context, userID uint64, fields map[string]any) error
	ListAutoCleanupUserIDs(ctx context.Context) ([]uint64, error)
	TouchCleanup(ctx context.Context, userID uint64, at time.Time) error
}

type retentionRepoImpl struct {
	db *gorm.DB
}

func NewRetentionRepo(db *gorm.DB) RetentionRepo {
	return &retentionRepoImpl{db: db}
}

func (r *retentionRepoImpl) GetByUser(ctx context.Context, userID uint64) (*model.DataRetentionSettings, error) {
	var settings model.DataRetentionSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *retentionRepoImpl) Create(ctx context.Context, settings *model.DataRetentionSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *retentionRepoImpl) UpdateFields(ctx context.Context, userID uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.DataRetentionSettings{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (r *retentionRepoImpl) ListAutoCleanupUserIDs(ctx context.Context) ([]uint64, error) {
	userIDs := make([]uint64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.DataRetentionSettings{}).
		Where("auto_cleanup_enabled = ?", true).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *retentionRepoImpl) TouchCleanup(ctx context.Context, userID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.DataRetentionSettings{}).
		Where("user_id = ?", userID).
		Update("last_cleanup_at", at).Error
}
