package job

import (
	"Plume/internal/pkg/cache"
	"Plume/internal/pkg/logger"
	"Plume/internal/pkg/metrics"
	"Plume/internal/repository"
	"Plume/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// InsightJob 按用户重新生成洞察，完成后让该用户的分析缓存失效
type InsightJob struct {
	accountRepo    repository.AccountRepo
	insightService service.InsightService
	analyticsCache *cache.AnalyticsCache
}

func NewInsightJob(accountRepo repository.AccountRepo, insightService service.InsightService, analyticsCache *cache.AnalyticsCache) *InsightJob {
	return &InsightJob{
		accountRepo:    accountRepo,
		insightService: insightService,
		analyticsCache: analyticsCache,
	}
}

func (s *InsightJob) Run() {
	traceID := "job-insight-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	metrics.InsightRuns.Inc()

	userIDs, err := s.accountRepo.ListSyncUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list insight user ids error", "err", err)
		return
	}

	var generated int
	for _, userID := range userIDs {
		result, genErr := s.insightService.GenerateAllInsights(ctx, userID)
		if genErr != nil {
			log.ErrorContext(ctx, "generate insights error", "user_id", userID, "err", genErr)
			continue
		}
		generated += result.Generated
		for _, msg := range result.Errors {
			log.WarnContext(ctx, "insight generator error", "user_id", userID, "detail", msg)
		}
		s.analyticsCache.InvalidateUser(userID)
	}

	log.InfoContext(ctx, "InsightJob finished", "user_count", len(userIDs), "generated", generated)
}
