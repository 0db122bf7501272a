package repository

import (
	"Plume/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo interface {
	// CreateIfAbsent 快照只追加：同一 (tweet_id, snapshot_date) 已存在时静默跳过
	CreateIfAbsent(ctx context.Context, snapshot *model.EngagementSnapshot) error
	// DeleteBeforeDate 删除指定用户在 cutoff（2006-01-02）之前的快照，返回删除行数
	DeleteBeforeDate(ctx context.Context, userID uint64, cutoff string) (int64, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

func (r *snapshotRepoImpl) CreateIfAbsent(ctx context.Context, snapshot *model.EngagementSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tweet_id"}, {Name: "snapshot_date"}},
		DoNothing: true,
	}).Create(snapshot).Error
}

func (r *snapshotRepoImpl) DeleteBeforeDate(ctx context.Context, userID uint64, cutoff string) (int64, error) {
	tweetIDs := r.db.Table("tweets").
		Select("tweets.id").
		Joins("JOIN accounts ON accounts.id = tweets.account_id").
		Where("accounts.user_id = ?", userID)

	result := r.db.WithContext(ctx).
		Where("snapshot_date < ?", cutoff).
		Where("tweet_id IN (?)", tweetIDs).
		Delete(&model.EngagementSnapshot{})
	return result.RowsAffected, result.Error
}
