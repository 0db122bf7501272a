package cron

import (
	"Plume/internal/api/config"
	"Plume/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine     *cron.Cron
	cfg        config.CronConfig
	syncJob    *job.AccountSyncJob
	cleanupJob *job.DataCleanupJob
	insightJob *job.InsightJob
}

func NewCronManager(cfg config.CronConfig, syncJob *job.AccountSyncJob, cleanupJob *job.DataCleanupJob, insightJob *job.InsightJob) *Manager {
	return &Manager{
		engine:     cron.New(cron.WithSeconds()),
		cfg:        cfg,
		syncJob:    syncJob,
		cleanupJob: cleanupJob,
		insightJob: insightJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.cfg.SyncSpec, s.syncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.cfg.CleanupSpec, s.cleanupJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.cfg.InsightSpec, s.insightJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
