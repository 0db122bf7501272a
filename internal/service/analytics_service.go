package service

import (
	"Plume/internal/api/dto"
	"Plume/internal/pkg/cache"
	"Plume/internal/pkg/util"
	"Plume/internal/repository"
	"context"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// 趋势查询的默认与上限天数
const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

type AnalyticsService interface {
	GetDashboard(ctx context.Context, userID uint64) (*dto.DashboardDTO, error)
	GetOverview(ctx context.Context, userID uint64, days int) (*dto.OverviewDTO, error)
	GetEngagementTrend(ctx context.Context, userID uint64, days int) (*dto.EngagementTrendDTO, error)
	GetContentMix(ctx context.Context, userID uint64) (*dto.ContentMixDTO, error)
	GetHashtagStats(ctx context.Context, userID uint64) (*dto.HashtagStatsDTO, error)
}

type analyticsServiceImpl struct {
	accountRepo   repository.AccountRepo
	statusRepo    repository.SyncStatusRepo
	insightRepo   repository.InsightRepo
	historyRepo   repository.FollowerHistoryRepo
	dailyStatRepo repository.DailyStatRepo
	analyticsRepo repository.ContentAnalyticsRepo
	cache         *cache.AnalyticsCache
	now           func() time.Time
}

func NewAnalyticsService(
	accountRepo repository.AccountRepo,
	statusRepo repository.SyncStatusRepo,
	insightRepo repository.InsightRepo,
	historyRepo repository.FollowerHistoryRepo,
	dailyStatRepo repository.DailyStatRepo,
	analyticsRepo repository.ContentAnalyticsRepo,
	analyticsCache *cache.AnalyticsCache,
) AnalyticsService {
	return &analyticsServiceImpl{
		accountRepo:   accountRepo,
		statusRepo:    statusRepo,
		insightRepo:   insightRepo,
		historyRepo:   historyRepo,
		dailyStatRepo: dailyStatRepo,
		analyticsRepo: analyticsRepo,
		cache:         analyticsCache,
		now:           time.Now,
	}
}

func (s *analyticsServiceImpl) GetDashboard(ctx context.Context, userID uint64) (*dto.DashboardDTO, error) {
	res, err := s.cache.GetCachedAnalytics(ctx, cache.TypeDashboard, userID, func(ctx context.Context) (any, error) {
		return s.computeDashboard(ctx, userID)
	}, nil)
	if err != nil {
		return nil, err
	}
	return res.(*dto.DashboardDTO), nil
}

func (s *analyticsServiceImpl) GetOverview(ctx context.Context, userID uint64, days int) (*dto.OverviewDTO, error) {
	days = clampDays(days)
	res, err := s.cache.GetCachedAnalytics(ctx, cache.TypeOverview, userID, func(ctx context.Context) (any, error) {
		return s.computeOverview(ctx, userID, days)
	}, map[string]int{"days": days})
	if err != nil {
		return nil, err
	}
	return res.(*dto.OverviewDTO), nil
}

func (s *analyticsServiceImpl) GetEngagementTrend(ctx context.Context, userID uint64, days int) (*dto.EngagementTrendDTO, error) {
	days = clampDays(days)
	res, err := s.cache.GetCachedAnalytics(ctx, cache.TypeEngagement, userID, func(ctx context.Context) (any, error) {
		return s.computeEngagementTrend(ctx, userID, days)
	}, map[string]int{"days": days})
	if err != nil {
		return nil, err
	}
	return res.(*dto.EngagementTrendDTO), nil
}

func (s *analyticsServiceImpl) GetContentMix(ctx context.Context, userID uint64) (*dto.ContentMixDTO, error) {
	res, err := s.cache.GetCachedAnalytics(ctx, cache.TypeContentMix, userID, func(ctx context.Context) (any, error) {
		return s.computeContentMix(ctx, userID)
	}, nil)
	if err != nil {
		return nil, err
	}
	return res.(*dto.ContentMixDTO), nil
}

func (s *analyticsServiceImpl) GetHashtagStats(ctx context.Context, userID uint64) (*dto.HashtagStatsDTO, error) {
	res, err := s.cache.GetCachedAnalytics(ctx, cache.TypeHashtags, userID, func(ctx context.Context) (any, error) {
		return s.computeHashtagStats(ctx, userID)
	}, nil)
	if err != nil {
		return nil, err
	}
	return res.(*dto.HashtagStatsDTO), nil
}

func (s *analyticsServiceImpl) computeDashboard(ctx context.Context, userID uint64) (*dto.DashboardDTO, error) {
	accounts, err := s.accountRepo.GetSyncEnabledByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &dto.DashboardDTO{AccountCount: len(accounts)}
	for _, account := range accounts {
		dashboard.FollowerCount += account.FollowerCount
		dashboard.TweetsSynced += account.TotalTweetsSynced
	}

	statuses, err := s.statusRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err = copier.Copy(&dashboard.SyncStatuses, &statuses); err != nil {
		return nil, err
	}

	insights, err := s.insightRepo.ListActive(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	dashboard.ActiveInsights = len(insights)

	return dashboard, nil
}

func (s *analyticsServiceImpl) computeOverview(ctx context.Context, userID uint64, days int) (*dto.OverviewDTO, error) {
	since := s.now().AddDate(0, 0, -days)
	history, err := s.historyRepo.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	// 同一天多条记录只保留最后一条
	type daySample struct {
		followers int
		following int
	}
	byDay := make(map[string]*daySample)
	for _, record := range history {
		byDay[util.DateString(record.RecordedAt)] = &daySample{
			followers: record.FollowerCount,
			following: record.FollowingCount,
		}
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	overview := &dto.OverviewDTO{
		Days:      days,
		Followers: make([]*dto.TrendPoint, 0, len(dates)),
		Following: make([]*dto.TrendPoint, 0, len(dates)),
	}
	for _, date := range dates {
		sample := byDay[date]
		overview.Followers = append(overview.Followers, &dto.TrendPoint{Date: date, Value: sample.followers})
		overview.Following = append(overview.Following, &dto.TrendPoint{Date: date, Value: sample.following})
	}
	return overview, nil
}

func (s *analyticsServiceImpl) computeEngagementTrend(ctx context.Context, userID uint64, days int) (*dto.EngagementTrendDTO, error) {
	since := util.DateString(s.now().AddDate(0, 0, -days))
	stats, err := s.dailyStatRepo.ListSinceDate(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	// 多账号同一天的记录合并为一个点
	type dayTotals struct {
		likes       int
		retweets    int
		replies     int
		impressions int
	}
	byDay := make(map[string]*dayTotals)
	for _, stat := range stats {
		totals, ok := byDay[stat.StatDate]
		if !ok {
			totals = &dayTotals{}
			byDay[stat.StatDate] = totals
		}
		totals.likes += stat.TotalLikes
		totals.retweets += stat.TotalRetweets
		totals.replies += stat.TotalReplies
		totals.impressions += stat.TotalImpressions
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trend := &dto.EngagementTrendDTO{
		Days:        days,
		Likes:       make([]*dto.TrendPoint, 0, len(dates)),
		Retweets:    make([]*dto.TrendPoint, 0, len(dates)),
		Replies:     make([]*dto.TrendPoint, 0, len(dates)),
		Impressions: make([]*dto.TrendPoint, 0, len(dates)),
	}
	for _, date := range dates {
		totals := byDay[date]
		trend.Likes = append(trend.Likes, &dto.TrendPoint{Date: date, Value: totals.likes})
		trend.Retweets = append(trend.Retweets, &dto.TrendPoint{Date: date, Value: totals.retweets})
		trend.Replies = append(trend.Replies, &dto.TrendPoint{Date: date, Value: totals.replies})
		trend.Impressions = append(trend.Impressions, &dto.TrendPoint{Date: date, Value: totals.impressions})
	}
	return trend, nil
}

func (s *analyticsServiceImpl) computeContentMix(ctx context.Context, userID uint64) (*dto.ContentMixDTO, error) {
	stats, err := s.analyticsRepo.ContentTypeStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	mix := &dto.ContentMixDTO{Entries: make([]*dto.ContentMixEntry, 0, len(stats))}
	for _, stat := range stats {
		mix.Entries = append(mix.Entries, &dto.ContentMixEntry{
			ContentType:   stat.ContentType,
			SampleCount:   stat.SampleCount,
			AvgEngagement: stat.AvgEngagement,
		})
	}
	sort.Slice(mix.Entries, func(i, j int) bool {
		return mix.Entries[i].AvgEngagement > mix.Entries[j].AvgEngagement
	})
	return mix, nil
}

func (s *analyticsServiceImpl) computeHashtagStats(ctx context.Context, userID uint64) (*dto.HashtagStatsDTO, error) {
	rows, err := s.analyticsRepo.HashtagRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	byTag := make(map[string]*dto.HashtagStat)
	for _, row := range rows {
		if row.Hashtags == "" {
			continue
		}
		var tags []string
		if err = json.Unmarshal([]byte(row.Hashtags), &tags); err != nil {
			continue
		}
		for _, tag := range tags {
			stat, ok := byTag[tag]
			if !ok {
				stat = &dto.HashtagStat{Tag: tag}
				byTag[tag] = stat
			}
			stat.UseCount++
			stat.TotalEngagement += row.EngagementScore
		}
	}

	res := &dto.HashtagStatsDTO{Tags: make([]*dto.HashtagStat, 0, len(byTag))}
	for _, stat := range byTag {
		stat.AvgEngagement = stat.TotalEngagement / float64(stat.UseCount)
		res.Tags = append(res.Tags, stat)
	}
	sort.Slice(res.Tags, func(i, j int) bool {
		if res.Tags[i].AvgEngagement != res.Tags[j].AvgEngagement {
			return res.Tags[i].AvgEngagement > res.Tags[j].AvgEngagement
		}
		return res.Tags[i].Tag < res.Tags[j].Tag
	})
	return res, nil
}

func clampDays(days int) int {
	if days <= 0 {
		return defaultTrendDays
	}
	if days > maxTrendDays {
		return maxTrendDays
	}
	return days
}
