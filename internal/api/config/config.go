package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// setDefaults 同步与清理策略的默认阈值，配置文件可覆盖
func setDefaults() {
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("sync.tier1_days", 7)
	viper.SetDefault("sync.tier2_days", 30)
	viper.SetDefault("sync.stale_hours", 24)
	viper.SetDefault("sync.max_tweets_per_sync", 200)
	viper.SetDefault("sync.batch_size", 10)
	viper.SetDefault("sync.account_pause_ms", 500)
	viper.SetDefault("sync.batch_pause_ms", 1000)
	viper.SetDefault("sync.snapshot_window_days", 30)
	viper.SetDefault("sync.interval_hours", 24)

	viper.SetDefault("cron.sync_spec", "0 0 2 * * *")
	viper.SetDefault("cron.cleanup_spec", "0 0 4 * * *")
	viper.SetDefault("cron.insight_spec", "0 30 4 * * *")

	viper.SetDefault("twitter.timeout_seconds", 15)
}
