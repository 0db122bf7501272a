package job

import (
	"Plume/internal/pkg/logger"
	"Plume/internal/pkg/metrics"
	"Plume/internal/repository"
	"Plume/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// AccountSyncJob 每日按用户逐个触发账号同步
type AccountSyncJob struct {
	accountRepo repository.AccountRepo
	syncService service.AccountSyncService
}

func NewAccountSyncJob(accountRepo repository.AccountRepo, syncService service.AccountSyncService) *AccountSyncJob {
	return &AccountSyncJob{
		accountRepo: accountRepo,
		syncService: syncService,
	}
}

func (s *AccountSyncJob) Run() {
	traceID := "job-sync-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	start := time.Now()
	metrics.SyncRuns.Inc()

	userIDs, err := s.accountRepo.ListSyncUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list sync user ids error", "err", err)
		metrics.SyncErrors.Inc()
		return
	}

	log.InfoContext(ctx, "AccountSyncJob processing", "user_count", len(userIDs))

	var tweetsSynced int
	for _, userID := range userIDs {
		stats, syncErr := s.syncService.SyncUserAccounts(ctx, userID)
		if syncErr != nil {
			log.ErrorContext(ctx, "sync user accounts error", "user_id", userID, "err", syncErr)
			metrics.SyncErrors.Inc()
			continue
		}
		tweetsSynced += stats.TweetsSynced
	}

	metrics.TweetsSynced.Add(float64(tweetsSynced))
	metrics.ObserveSyncDuration(start)
	log.InfoContext(ctx, "AccountSyncJob finished",
		"user_count", len(userIDs), "tweets_synced", tweetsSynced)
}
