package dto

import "time"

// AccountSyncResult 单账号一次同步的结果
type AccountSyncResult struct {
	AccountID     uint64 `json:"account_id"`
	Username      string `json:"username"`
	Status        string `json:"status"` // success / partial / failed
	TweetsSynced  int    `json:"tweets_synced"`
	TweetsDeleted int    `json:"tweets_deleted"`
	TweetsSkipped int    `json:"tweets_skipped"`
	TweetsFailed  int    `json:"tweets_failed"`
	Error         string `json:"error,omitempty"`
}

// SyncStats 一个用户全部账号同步的汇总
type SyncStats struct {
	AccountsSynced int                  `json:"accounts_synced"`
	AccountsFailed int                  `json:"accounts_failed"`
	TweetsSynced   int                  `json:"tweets_synced"`
	TweetsFailed   int                  `json:"tweets_failed"`
	Results        []*AccountSyncResult `json:"results"`
}

// AccountSyncStatusDTO 账号同步状态查询返回
type AccountSyncStatusDTO struct {
	AccountID    uint64    `json:"account_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	TweetsSynced int       `json:"tweets_synced"`
	TweetsFailed int       `json:"tweets_failed"`
	LastSyncAt   time.Time `json:"last_sync_at"`
	NextSyncAt   time.Time `json:"next_sync_at"`
}
