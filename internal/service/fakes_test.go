package service

import (
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"Plume/internal/pkg/twitter"
	"Plume/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

type fakeAccountRepo struct {
	accounts     []*model.Account
	finishedWith map[uint64]int
}

func (f *fakeAccountRepo) GetByID(_ context.Context, accountID uint64) (*model.Account, error) {
	for _, a := range f.accounts {
		if a.ID == accountID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) GetSyncEnabledByUser(_ context.Context, userID uint64) ([]*model.Account, error) {
	res := make([]*model.Account, 0)
	for _, a := range f.accounts {
		if a.UserID == userID && (a.SyncEnabled == nil || *a.SyncEnabled) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeAccountRepo) ListSyncUserIDs(_ context.Context) ([]uint64, error) {
	seen := make(map[uint64]bool)
	res := make([]uint64, 0)
	for _, a := range f.accounts {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			res = append(res, a.UserID)
		}
	}
	return res, nil
}

func (f *fakeAccountRepo) UpdateFollowerCounts(_ context.Context, accountID uint64, followers, following int, _ time.Time) error {
	for _, a := range f.accounts {
		if a.ID == accountID {
			a.FollowerCount = followers
			a.FollowingCount = following
		}
	}
	return nil
}

func (f *fakeAccountRepo) FinishTweetSync(_ context.Context, accountID uint64, synced int, _ time.Time) error {
	if f.finishedWith == nil {
		f.finishedWith = make(map[uint64]int)
	}
	f.finishedWith[accountID] += synced
	return nil
}

type fakeTweetRepo struct {
	mu      sync.Mutex
	tweets  []*model.Tweet
	totals  map[uint64]*repository.EngagementTotals
	updated []uint64
	deleted []uint64
}

func (f *fakeTweetRepo) GetPostedSince(_ context.Context, accountID uint64, since time.Time, limit int) ([]*model.Tweet, error) {
	res := make([]*model.Tweet, 0)
	for _, t := range f.tweets {
		if t.AccountID == accountID && t.Status == consts.TweetStatusPosted && !t.PostedAt.Before(since) {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].PostedAt.After(res[j].PostedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeTweetRepo) UpdateEngagement(_ context.Context, tweetID uint64, likes, retweets, replies, impressions int, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tweets {
		if t.ID == tweetID {
			t.LikeCount = likes
			t.RetweetCount = retweets
			t.ReplyCount = replies
			t.ImpressionCount = impressions
			now := time.Now()
			t.UpdatedAt = &now
		}
	}
	f.updated = append(f.updated, tweetID)
	return nil
}

func (f *fakeTweetRepo) MarkDeleted(_ context.Context, tweetID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tweets {
		if t.ID == tweetID {
			t.Status = consts.TweetStatusDeleted
		}
	}
	f.deleted = append(f.deleted, tweetID)
	return nil
}

func (f *fakeTweetRepo) LatestPostedAt(_ context.Context, accountID uint64) (*time.Time, error) {
	var latest *time.Time
	for _, t := range f.tweets {
		if t.AccountID != accountID || t.Status != consts.TweetStatusPosted {
			continue
		}
		posted := t.PostedAt
		if latest == nil || posted.After(*latest) {
			latest = &posted
		}
	}
	return latest, nil
}

func (f *fakeTweetRepo) EngagementTotals(_ context.Context, accountID uint64) (*repository.EngagementTotals, error) {
	if totals, ok := f.totals[accountID]; ok {
		return totals, nil
	}
	return &repository.EngagementTotals{}, nil
}

type fakeSnapshotRepo struct {
	mu            sync.Mutex
	created       map[string]*model.EngagementSnapshot
	deleteCutoffs []string
	deleteCount   int64
}

func (f *fakeSnapshotRepo) CreateIfAbsent(_ context.Context, snapshot *model.EngagementSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created == nil {
		f.created = make(map[string]*model.EngagementSnapshot)
	}
	key := fmt.Sprintf("%d:%s", snapshot.TweetID, snapshot.SnapshotDate)
	if _, ok := f.created[key]; ok {
		return nil
	}
	f.created[key] = snapshot
	return nil
}

func (f *fakeSnapshotRepo) DeleteBeforeDate(_ context.Context, _ uint64, cutoff string) (int64, error) {
	f.deleteCutoffs = append(f.deleteCutoffs, cutoff)
	return f.deleteCount, nil
}

type fakeHistoryRepo struct {
	appended      []*model.FollowerHistory
	deleteCutoffs []time.Time
	deleteCount   int64
}

func (f *fakeHistoryRepo) Append(_ context.Context, history *model.FollowerHistory) error {
	f.appended = append(f.appended, history)
	return nil
}

func (f *fakeHistoryRepo) ListSince(_ context.Context, _ uint64, since time.Time) ([]*model.FollowerHistory, error) {
	res := make([]*model.FollowerHistory, 0)
	for _, h := range f.appended {
		if !h.RecordedAt.Before(since) {
			res = append(res, h)
		}
	}
	return res, nil
}

func (f *fakeHistoryRepo) DeleteBefore(_ context.Context, _ uint64, cutoff time.Time) (int64, error) {
	f.deleteCutoffs = append(f.deleteCutoffs, cutoff)
	return f.deleteCount, nil
}

type fakeStatusRepo struct {
	statuses map[uint64]*model.AccountSyncStatus
}

func (f *fakeStatusRepo) Upsert(_ context.Context, status *model.AccountSyncStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[uint64]*model.AccountSyncStatus)
	}
	f.statuses[status.AccountID] = status
	return nil
}

func (f *fakeStatusRepo) ListByUser(_ context.Context, userID uint64) ([]*model.AccountSyncStatus, error) {
	res := make([]*model.AccountSyncStatus, 0)
	for _, s := range f.statuses {
		if s.UserID == userID {
			res = append(res, s)
		}
	}
	return res, nil
}

type fakeRetentionRepo struct {
	settings      map[uint64]*model.DataRetentionSettings
	updatedFields map[string]any
	touched       []uint64
}

func (f *fakeRetentionRepo) GetByUser(_ context.Context, userID uint64) (*model.DataRetentionSettings, error) {
	if s, ok := f.settings[userID]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeRetentionRepo) Create(_ context.Context, settings *model.DataRetentionSettings) error {
	if f.settings == nil {
		f.settings = make(map[uint64]*model.DataRetentionSettings)
	}
	f.settings[settings.UserID] = settings
	return nil
}

func (f *fakeRetentionRepo) UpdateFields(_ context.Context, userID uint64, fields map[string]any) error {
	f.updatedFields = fields
	s, ok := f.settings[userID]
	if !ok {
		return errors.New("settings missing")
	}
	for column, value := range fields {
		switch column {
		case "snapshot_retention_days":
			s.SnapshotRetentionDays = value.(int)
		case "active_tweet_window_days":
			s.ActiveTweetWindowDays = value.(int)
		case "follower_history_days":
			s.FollowerHistoryDays = value.(int)
		case "daily_stats_days":
			s.DailyStatsDays = value.(int)
		case "content_analytics_days":
			s.ContentAnalyticsDays = value.(int)
		case "auto_cleanup_enabled":
			s.AutoCleanupEnabled = value.(bool)
		}
	}
	return nil
}

func (f *fakeRetentionRepo) ListAutoCleanupUserIDs(_ context.Context) ([]uint64, error) {
	res := make([]uint64, 0)
	for userID, s := range f.settings {
		if s.AutoCleanupEnabled {
			res = append(res, userID)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res, nil
}

func (f *fakeRetentionRepo) TouchCleanup(_ context.Context, userID uint64, at time.Time) error {
	f.touched = append(f.touched, userID)
	if s, ok := f.settings[userID]; ok {
		s.LastCleanupAt = &at
	}
	return nil
}

type fakeDailyStatRepo struct {
	mu            sync.Mutex
	upserted      map[string]*model.DailyStat
	deleteCutoffs []string
	deleteCount   int64
}

func (f *fakeDailyStatRepo) Upsert(_ context.Context, stat *model.DailyStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = make(map[string]*model.DailyStat)
	}
	f.upserted[fmt.Sprintf("%d:%s", stat.AccountID, stat.StatDate)] = stat
	return nil
}

func (f *fakeDailyStatRepo) ListSinceDate(_ context.Context, _ uint64, since string) ([]*model.DailyStat, error) {
	res := make([]*model.DailyStat, 0)
	for _, stat := range f.upserted {
		if stat.StatDate >= since {
			res = append(res, stat)
		}
	}
	return res, nil
}

func (f *fakeDailyStatRepo) DeleteBeforeDate(_ context.Context, _ uint64, cutoff string) (int64, error) {
	f.deleteCutoffs = append(f.deleteCutoffs, cutoff)
	return f.deleteCount, nil
}

type fakeContentAnalyticsRepo struct {
	mu            sync.Mutex
	upserted      map[uint64]*model.ContentAnalytics
	timeBuckets   []*repository.TimeBucket
	typeStats     []*repository.ContentTypeStat
	hashtagRows   []*repository.HashtagRow
	deleteCutoffs []time.Time
	deleteCount   int64
}

func (f *fakeContentAnalyticsRepo) Upsert(_ context.Context, analytics *model.ContentAnalytics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = make(map[uint64]*model.ContentAnalytics)
	}
	f.upserted[analytics.TweetID] = analytics
	return nil
}

func (f *fakeContentAnalyticsRepo) TimeBuckets(_ context.Context, _ uint64) ([]*repository.TimeBucket, error) {
	return f.timeBuckets, nil
}

func (f *fakeContentAnalyticsRepo) ContentTypeStats(_ context.Context, _ uint64) ([]*repository.ContentTypeStat, error) {
	return f.typeStats, nil
}

func (f *fakeContentAnalyticsRepo) HashtagRows(_ context.Context, _ uint64) ([]*repository.HashtagRow, error) {
	return f.hashtagRows, nil
}

func (f *fakeContentAnalyticsRepo) DeleteBefore(_ context.Context, _ uint64, cutoff time.Time) (int64, error) {
	f.deleteCutoffs = append(f.deleteCutoffs, cutoff)
	return f.deleteCount, nil
}

type fakeInsightRepo struct {
	insights       []*model.Insight
	nextID         uint64
	expiredDeleted int64
	cleanupDeleted int64
	cleanupCalls   int
}

func (f *fakeInsightRepo) GetActive(_ context.Context, userID uint64, insightType string, now time.Time) (*model.Insight, error) {
	for _, ins := range f.insights {
		if ins.UserID == userID && ins.InsightType == insightType && !ins.Dismissed && ins.ExpiresAt.After(now) {
			return ins, nil
		}
	}
	return nil, nil
}

func (f *fakeInsightRepo) Create(_ context.Context, insight *model.Insight) error {
	f.nextID++
	insight.ID = f.nextID
	f.insights = append(f.insights, insight)
	return nil
}

func (f *fakeInsightRepo) Update(_ context.Context, insight *model.Insight) error {
	for i, ins := range f.insights {
		if ins.ID == insight.ID {
			f.insights[i] = insight
		}
	}
	return nil
}

func (f *fakeInsightRepo) ListActive(_ context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	res := make([]*model.Insight, 0)
	for _, ins := range f.insights {
		if ins.UserID == userID && !ins.Dismissed && ins.ExpiresAt.After(now) {
			res = append(res, ins)
		}
	}
	return res, nil
}

func (f *fakeInsightRepo) Dismiss(_ context.Context, userID uint64, insightID uint64) (int64, error) {
	for _, ins := range f.insights {
		if ins.ID == insightID && ins.UserID == userID && !ins.Dismissed {
			ins.Dismissed = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeInsightRepo) DeleteExpired(_ context.Context, userID uint64, now time.Time) (int64, error) {
	kept := f.insights[:0]
	var removed int64
	for _, ins := range f.insights {
		if ins.UserID == userID && !ins.ExpiresAt.After(now) {
			removed++
			continue
		}
		kept = append(kept, ins)
	}
	f.insights = kept
	f.expiredDeleted += removed
	return removed, nil
}

func (f *fakeInsightRepo) DeleteExpiredOrDismissed(_ context.Context, userID uint64, now time.Time) (int64, error) {
	f.cleanupCalls++
	kept := f.insights[:0]
	var removed int64
	for _, ins := range f.insights {
		if ins.UserID == userID && (ins.Dismissed || !ins.ExpiresAt.After(now)) {
			removed++
			continue
		}
		kept = append(kept, ins)
	}
	f.insights = kept
	f.cleanupDeleted += removed
	return removed, nil
}

type fakeTwitterClient struct {
	mu         sync.Mutex
	details    map[string]*twitter.TweetDetails
	detailErr  map[string]error
	analytics  map[string]*twitter.UserAnalytics
	fetchCalls []string
}

func (f *fakeTwitterClient) GetTweetDetails(_ context.Context, externalID string) (*twitter.TweetDetails, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, externalID)
	f.mu.Unlock()
	if err, ok := f.detailErr[externalID]; ok {
		return nil, err
	}
	if d, ok := f.details[externalID]; ok {
		return d, nil
	}
	return &twitter.TweetDetails{}, nil
}

func (f *fakeTwitterClient) GetUserAnalytics(_ context.Context, username string) (*twitter.UserAnalytics, error) {
	if a, ok := f.analytics[username]; ok {
		return a, nil
	}
	return &twitter.UserAnalytics{}, nil
}
