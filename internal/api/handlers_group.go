package api

import "Plume/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	SyncHandler      *handler.SyncHandler
	RetentionHandler *handler.RetentionHandler
	InsightHandler   *handler.InsightHandler
	AnalyticsHandler *handler.AnalyticsHandler
}
