package repository

import (
	"Plume/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type InsightRepo interface {
	// GetActive 返回该用户该类型下未忽略且未过期的记录，不存在返回 nil
	GetActive(ctx context.Context, userID uint64, insightType string, now time.Time) (*model.Insight, error)
	Create(ctx context.Context, insight *model.Insight) error
	Update(ctx context.Context, insight *model.Insight) error
	ListActive(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error)
	Dismiss(ctx context.Context, userID uint64, insightID uint64) (int64, error)
	// DeleteExpired 只按过期时间删除，洞察重新生成前调用
	DeleteExpired(ctx context.Context, userID uint64, now time.Time) (int64, error)
	// DeleteExpiredOrDismissed 清理任务使用：过期或已忽略的都删掉
	DeleteExpiredOrDismissed(ctx context.Context, userID uint64, now time.Time) (int64, error)
}

type insightRepoImpl struct {
	db *gorm.DB
}

func NewInsightRepo(db *gorm.DB) InsightRepo {
	return &insightRepoImpl{db: db}
}

func (r *insightRepoImpl) GetActive(ctx context.Context, userID uint64, insightType string, now time.Time) (*model.Insight, error) {
	var insight model.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND insight_type = ?", userID, insightType).
		Where("dismissed = ?", false).
		Where("expires_at > ?", now).
		First(&insight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &insight, nil
}

func (r *insightRepoImpl) Create(ctx context.Context, insight *model.Insight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}

func (r *insightRepoImpl) Update(ctx context.Context, insight *model.Insight) error {
	return r.db.WithContext(ctx).
		Model(&model.Insight{}).
		Where("id = ?", insight.ID).
		Updates(map[string]any{
			"title":        insight.Title,
			"description":  insight.Description,
			"priority":     insight.Priority,
			"data":         insight.Data,
			"generated_at": insight.GeneratedAt,
			"expires_at":   insight.ExpiresAt,
		}).Error
}

func (r *insightRepoImpl) ListActive(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	insights := make([]*model.Insight, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("dismissed = ?", false).
		Where("expires_at > ?", now).
		Order("generated_at DESC").
		Find(&insights)
	if result.Error != nil {
		return nil, result.Error
	}
	return insights, nil
}

func (r *insightRepoImpl) Dismiss(ctx context.Context, userID uint64, insightID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Insight{}).
		Where("id = ? AND user_id = ?", insightID, userID).
		Update("dismissed", true)
	return result.RowsAffected, result.Error
}

func (r *insightRepoImpl) DeleteExpired(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("expires_at < ?", now).
		Delete(&model.Insight{})
	return result.RowsAffected, result.Error
}

func (r *insightRepoImpl) DeleteExpiredOrDismissed(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("expires_at < ? OR dismissed = ?", now, true).
		Delete(&model.Insight{})
	return result.RowsAffected, result.Error
}
