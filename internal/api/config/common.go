package config

import "time"

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Twitter  TwitterConfig  `mapstructure:"twitter"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Cron     CronConfig     `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// TwitterConfig 外部互动数据 API 配置
type TwitterConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	BearerToken    string `mapstructure:"bearer_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SyncConfig 同步分层与节流策略，全部可配置以便测试时缩短
type SyncConfig struct {
	Tier1Days          int `mapstructure:"tier1_days"`            // 低于该天数的推文每次都同步
	Tier2Days          int `mapstructure:"tier2_days"`            // 高于该天数的推文不再同步
	StaleHours         int `mapstructure:"stale_hours"`           // Tier2 推文的重新同步间隔
	MaxTweetsPerSync   int `mapstructure:"max_tweets_per_sync"`   // 单账号单次上限
	BatchSize          int `mapstructure:"batch_size"`            // 批内并发拉取数量
	AccountPauseMs     int `mapstructure:"account_pause_ms"`      // 账号之间的间隔
	BatchPauseMs       int `mapstructure:"batch_pause_ms"`        // 批次之间的间隔
	SnapshotWindowDays int `mapstructure:"snapshot_window_days"`  // 超过该天数不再生成快照
	IntervalHours      int `mapstructure:"interval_hours"`        // next_sync_at 偏移
}

// CronConfig 定时任务表达式（带秒位）
type CronConfig struct {
	SyncSpec    string `mapstructure:"sync_spec"`
	CleanupSpec string `mapstructure:"cleanup_spec"`
	InsightSpec string `mapstructure:"insight_spec"`
}

// AccountPause 账号间隔时长
func (c SyncConfig) AccountPause() time.Duration {
	return time.Duration(c.AccountPauseMs) * time.Millisecond
}

// BatchPause 批次间隔时长
func (c SyncConfig) BatchPause() time.Duration {
	return time.Duration(c.BatchPauseMs) * time.Millisecond
}

// StaleAfter Tier2 重新同步间隔时长
func (c SyncConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleHours) * time.Hour
}

// SyncInterval 两次同步之间的最小间隔
func (c SyncConfig) SyncInterval() time.Duration {
	return time.Duration(c.IntervalHours) * time.Hour
}
