package model

import (
	"time"
)

// Insight 按用户生成的带优先级的建议，同一 (user_id, insight_type) 至多一条活跃记录
type Insight struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	UserID      uint64    `gorm:"not null;index:idx_user_type;column:user_id" json:"userId"`
	InsightType string    `gorm:"type:varchar(32);not null;index:idx_user_type;column:insight_type" json:"insightType"`
	Title       string    `gorm:"type:varchar(128);column:title" json:"title"`
	Description string    `gorm:"type:varchar(512);column:description" json:"description"`
	Priority    string    `gorm:"type:varchar(8);not null;column:priority" json:"priority"` // high / medium / low
	Data        string    `gorm:"type:text;column:data" json:"data"`                        // JSON，各生成器自定义结构
	GeneratedAt time.Time `gorm:"column:generated_at" json:"generatedAt"`
	ExpiresAt   time.Time `gorm:"column:expires_at" json:"expiresAt"`
	Dismissed   bool      `gorm:"not null;default:0;column:dismissed" json:"dismissed"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Insight) TableName() string {
	return "insights"
}
