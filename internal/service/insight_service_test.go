package service

import (
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"Plume/internal/repository"
	"context"
	"testing"
	"time"
)

type insightFixture struct {
	svc       *insightServiceImpl
	insights  *fakeInsightRepo
	analytics *fakeContentAnalyticsRepo
	accounts  *fakeAccountRepo
	tweets    *fakeTweetRepo
}

func newInsightFixture(now time.Time) *insightFixture {
	f := &insightFixture{
		insights:  &fakeInsightRepo{},
		analytics: &fakeContentAnalyticsRepo{},
		accounts:  &fakeAccountRepo{},
		tweets:    &fakeTweetRepo{},
	}
	svc := NewInsightService(f.insights, f.analytics, f.accounts, f.tweets).(*insightServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func countByType(insights []*model.Insight, insightType string) int {
	n := 0
	for _, ins := range insights {
		if ins.InsightType == insightType {
			n++
		}
	}
	return n
}

func TestGenerateBestTimeInsight(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.analytics.timeBuckets = []*repository.TimeBucket{
		{PostHour: 9, PostDay: 1, SampleCount: 5, AvgEngagement: 60},
		{PostHour: 21, PostDay: 5, SampleCount: 2, AvgEngagement: 500}, // 样本不足
		{PostHour: 14, PostDay: 3, SampleCount: 8, AvgEngagement: 25},
	}

	result, err := f.svc.GenerateAllInsights(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected generator errors: %v", result.Errors)
	}

	var bestTime *model.Insight
	for _, ins := range f.insights.insights {
		if ins.InsightType == consts.InsightTypeBestTime {
			bestTime = ins
		}
	}
	if bestTime == nil {
		t.Fatal("best time insight missing")
	}
	if bestTime.Priority != consts.PriorityHigh {
		t.Fatalf("avg 60 should be high priority, got %s", bestTime.Priority)
	}
	if !bestTime.ExpiresAt.Equal(now.AddDate(0, 0, 7)) {
		t.Fatalf("best time insight should expire in 7 days, got %v", bestTime.ExpiresAt)
	}
}

func TestContentTypeInsightRequiresClearWinner(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	// 优势 1.2 倍，不到 1.5 的门槛
	f.analytics.typeStats = []*repository.ContentTypeStat{
		{ContentType: consts.ContentTypeImage, SampleCount: 6, AvgEngagement: 12},
		{ContentType: consts.ContentTypeText, SampleCount: 6, AvgEngagement: 10},
	}

	if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if countByType(f.insights.insights, consts.InsightTypeContentType) != 0 {
		t.Fatal("ratio below threshold must not produce an insight")
	}
}

func TestContentTypeInsightPriorityScalesWithRatio(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.analytics.typeStats = []*repository.ContentTypeStat{
		{ContentType: consts.ContentTypeVideo, SampleCount: 8, AvgEngagement: 40},
		{ContentType: consts.ContentTypeText, SampleCount: 10, AvgEngagement: 10},
		{ContentType: consts.ContentTypeGif, SampleCount: 3, AvgEngagement: 999}, // 样本不足，不参与
	}

	if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	var contentType *model.Insight
	for _, ins := range f.insights.insights {
		if ins.InsightType == consts.InsightTypeContentType {
			contentType = ins
		}
	}
	if contentType == nil {
		t.Fatal("content type insight missing")
	}
	// 40/10 = 4 倍
	if contentType.Priority != consts.PriorityHigh {
		t.Fatalf("ratio 4 should be high priority, got %s", contentType.Priority)
	}
}

func TestInactiveAccountInsightPerAccount(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.accounts.accounts = []*model.Account{
		{ID: 1, UserID: 10, Username: "active"},
		{ID: 2, UserID: 10, Username: "quiet"},
		{ID: 3, UserID: 10, Username: "silent"},
	}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, Status: consts.TweetStatusPosted, PostedAt: now.AddDate(0, 0, -1)},
		{ID: 2, AccountID: 2, Status: consts.TweetStatusPosted, PostedAt: now.AddDate(0, 0, -8)},
		// 账号 3 从未发布
	}

	if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	inactive := make([]*model.Insight, 0)
	for _, ins := range f.insights.insights {
		if ins.InsightType == consts.InsightTypeInactiveAccount {
			inactive = append(inactive, ins)
		}
	}
	if len(inactive) != 2 {
		t.Fatalf("expected insights for the two idle accounts, got %d", len(inactive))
	}
	for _, ins := range inactive {
		if !ins.ExpiresAt.Equal(now.AddDate(0, 0, 3)) {
			t.Fatalf("inactive insight should expire in 3 days, got %v", ins.ExpiresAt)
		}
	}
	// 8 天沉寂 → medium
	if inactive[0].Priority != consts.PriorityMedium {
		t.Fatalf("8 idle days should be medium priority, got %s", inactive[0].Priority)
	}
	// 从未发布按最高档
	if inactive[1].Priority != consts.PriorityHigh {
		t.Fatalf("never-posted account should be high priority, got %s", inactive[1].Priority)
	}
}

func TestTopHashtagInsightParsesJSONTags(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.analytics.hashtagRows = []*repository.HashtagRow{
		{Hashtags: `["launch","ai"]`, EngagementScore: 30},
		{Hashtags: `["launch"]`, EngagementScore: 60},
		{Hashtags: `["launch","ai"]`, EngagementScore: 90},
		{Hashtags: `["ai"]`, EngagementScore: 5},
		{Hashtags: `not-json`, EngagementScore: 999}, // 坏数据跳过
	}

	if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	var topTag *model.Insight
	for _, ins := range f.insights.insights {
		if ins.InsightType == consts.InsightTypeTopHashtag {
			topTag = ins
		}
	}
	if topTag == nil {
		t.Fatal("top hashtag insight missing")
	}
	// launch: 3 次使用，平均 60；ai: 3 次使用，平均 41.67
	if topTag.Priority != consts.PriorityHigh {
		t.Fatalf("avg 60 should be high priority, got %s", topTag.Priority)
	}
}

func TestStoreInsightUpdatesActiveRowInPlace(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.analytics.timeBuckets = []*repository.TimeBucket{
		{PostHour: 9, PostDay: 1, SampleCount: 5, AvgEngagement: 60},
	}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
			t.Fatal(err)
		}
	}

	if n := countByType(f.insights.insights, consts.InsightTypeBestTime); n != 1 {
		t.Fatalf("regeneration must update the active row, found %d rows", n)
	}
}

func TestGenerateAllInsightsDeletesExpiredFirst(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.insights.insights = []*model.Insight{
		{ID: 99, UserID: 10, InsightType: consts.InsightTypeBestTime, ExpiresAt: now.Add(-time.Hour)},
	}
	f.insights.nextID = 99

	if _, err := f.svc.GenerateAllInsights(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if f.insights.expiredDeleted != 1 {
		t.Fatalf("expired insights should be deleted before regeneration, deleted=%d", f.insights.expiredDeleted)
	}
}

func TestDismissInsight(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newInsightFixture(now)
	f.insights.insights = []*model.Insight{
		{ID: 1, UserID: 10, InsightType: consts.InsightTypeBestTime, ExpiresAt: now.Add(time.Hour)},
	}

	if err := f.svc.DismissInsight(context.Background(), 10, 1); err != nil {
		t.Fatal(err)
	}
	if !f.insights.insights[0].Dismissed {
		t.Fatal("insight not marked dismissed")
	}

	// 不属于该用户或不存在
	if err := f.svc.DismissInsight(context.Background(), 10, 999); err != ErrInsightNotFound {
		t.Fatalf("expected ErrInsightNotFound, got %v", err)
	}
}
