package job

import (
	"Plume/internal/pkg/logger"
	"Plume/internal/pkg/metrics"
	"Plume/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// DataCleanupJob 周期性执行全局数据清理
type DataCleanupJob struct {
	cleanupService service.DataCleanupService
}

func NewDataCleanupJob(cleanupService service.DataCleanupService) *DataCleanupJob {
	return &DataCleanupJob{
		cleanupService: cleanupService,
	}
}

func (s *DataCleanupJob) Run() {
	traceID := "job-cleanup-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	metrics.CleanupRuns.Inc()

	stats, err := s.cleanupService.RunGlobalCleanup(ctx)
	if err != nil {
		log.ErrorContext(ctx, "global cleanup error", "err", err)
		return
	}

	log.InfoContext(ctx, "DataCleanupJob finished",
		"users_processed", stats.UsersProcessed,
		"snapshots_deleted", stats.SnapshotsDeleted,
		"insights_deleted", stats.InsightsDeleted)
}
