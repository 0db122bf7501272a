package dto

import "time"

// InsightDTO 洞察查询返回
type InsightDTO struct {
	ID          uint64    `json:"id"`
	InsightType string    `json:"insight_type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Data        string    `json:"data"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InsightGenerationResult 一次生成任务的结果，单个生成器失败不影响其余
type InsightGenerationResult struct {
	Generated int      `json:"generated"`
	Errors    []string `json:"errors,omitempty"`
}
