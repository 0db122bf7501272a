package wire

import (
	"Plume/internal/api"
	"Plume/internal/api/config"
	"Plume/internal/api/handler"
	"Plume/internal/job"
	"Plume/internal/pkg/cache"
	"Plume/internal/pkg/cron"
	"Plume/internal/pkg/twitter"
	"Plume/internal/repository"
	"Plume/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router         *gin.Engine
	DB             *gorm.DB
	CronMgr        *cron.Manager
	AnalyticsCache *cache.AnalyticsCache
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	accountRepo := repository.NewAccountRepo(db)
	tweetRepo := repository.NewTweetRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)
	historyRepo := repository.NewFollowerHistoryRepo(db)
	statusRepo := repository.NewSyncStatusRepo(db)
	retentionRepo := repository.NewRetentionRepo(db)
	dailyStatRepo := repository.NewDailyStatRepo(db)
	analyticsRepo := repository.NewContentAnalyticsRepo(db)
	insightRepo := repository.NewInsightRepo(db)

	twitterClient := twitter.NewClient(cfg.Twitter)
	analyticsCache := cache.NewAnalyticsCache()

	syncService := service.NewAccountSyncService(
		accountRepo, tweetRepo, snapshotRepo, historyRepo,
		statusRepo, analyticsRepo, dailyStatRepo,
		twitterClient, cfg.Sync,
	)
	cleanupService := service.NewDataCleanupService(
		retentionRepo, snapshotRepo, historyRepo,
		dailyStatRepo, analyticsRepo, insightRepo,
	)
	insightService := service.NewInsightService(insightRepo, analyticsRepo, accountRepo, tweetRepo)
	analyticsService := service.NewAnalyticsService(
		accountRepo, statusRepo, insightRepo, historyRepo,
		dailyStatRepo, analyticsRepo, analyticsCache,
	)

	handlers := &api.HandlersGroup{
		SyncHandler:      handler.NewSyncHandler(syncService, accountRepo),
		RetentionHandler: handler.NewRetentionHandler(cleanupService),
		InsightHandler:   handler.NewInsightHandler(insightService, analyticsCache),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, analyticsCache),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(cfg.Cron,
		job.NewAccountSyncJob(accountRepo, syncService),
		job.NewDataCleanupJob(cleanupService),
		job.NewInsightJob(accountRepo, insightService, analyticsCache),
	)

	return &ApplicationContainer{
		Router:         router,
		DB:             db,
		CronMgr:        cronMgr,
		AnalyticsCache: analyticsCache,
	}, nil
}
