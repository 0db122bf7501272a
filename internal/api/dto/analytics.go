package dto

// TrendPoint 时间序列上的一个点
type TrendPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// DashboardDTO 仪表盘首屏概要
type DashboardDTO struct {
	AccountCount   int                     `json:"account_count"`
	FollowerCount  int                     `json:"follower_count"`
	TweetsSynced   int                     `json:"tweets_synced"`
	SyncStatuses   []*AccountSyncStatusDTO `json:"sync_statuses"`
	ActiveInsights int                     `json:"active_insights"`
}

// OverviewDTO 粉丝增长概览
type OverviewDTO struct {
	Days      int           `json:"days"`
	Followers []*TrendPoint `json:"followers"`
	Following []*TrendPoint `json:"following"`
}

// EngagementTrendDTO 互动总量趋势
type EngagementTrendDTO struct {
	Days        int           `json:"days"`
	Likes       []*TrendPoint `json:"likes"`
	Retweets    []*TrendPoint `json:"retweets"`
	Replies     []*TrendPoint `json:"replies"`
	Impressions []*TrendPoint `json:"impressions"`
}

// ContentMixEntry 内容类型占比
type ContentMixEntry struct {
	ContentType   string  `json:"content_type"`
	SampleCount   int     `json:"sample_count"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// ContentMixDTO 内容类型表现
type ContentMixDTO struct {
	Entries []*ContentMixEntry `json:"entries"`
}

// HashtagStat 单个话题标签的聚合表现
type HashtagStat struct {
	Tag             string  `json:"tag"`
	UseCount        int     `json:"use_count"`
	TotalEngagement float64 `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement"`
}

// HashtagStatsDTO 话题标签表现
type HashtagStatsDTO struct {
	Tags []*HashtagStat `json:"tags"`
}
