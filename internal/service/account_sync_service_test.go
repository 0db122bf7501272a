package service

import (
	"Plume/internal/api/config"
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"Plume/internal/pkg/twitter"
	"Plume/internal/pkg/util"
	"context"
	"errors"
	"testing"
	"time"
)

func testSyncConfig() config.SyncConfig {
	// 间隔置零，避免测试等待
	return config.SyncConfig{
		Tier1Days:          7,
		Tier2Days:          30,
		StaleHours:         24,
		MaxTweetsPerSync:   200,
		BatchSize:          10,
		SnapshotWindowDays: 30,
		IntervalHours:      24,
	}
}

type syncFixture struct {
	svc       *accountSyncServiceImpl
	accounts  *fakeAccountRepo
	tweets    *fakeTweetRepo
	snapshots *fakeSnapshotRepo
	history   *fakeHistoryRepo
	statuses  *fakeStatusRepo
	analytics *fakeContentAnalyticsRepo
	daily     *fakeDailyStatRepo
	client    *fakeTwitterClient
}

func newSyncFixture(now time.Time) *syncFixture {
	f := &syncFixture{
		accounts:  &fakeAccountRepo{},
		tweets:    &fakeTweetRepo{},
		snapshots: &fakeSnapshotRepo{},
		history:   &fakeHistoryRepo{},
		statuses:  &fakeStatusRepo{},
		analytics: &fakeContentAnalyticsRepo{},
		daily:     &fakeDailyStatRepo{},
		client:    &fakeTwitterClient{},
	}
	svc := NewAccountSyncService(
		f.accounts, f.tweets, f.snapshots, f.history,
		f.statuses, f.analytics, f.daily,
		f.client, testSyncConfig(),
	).(*accountSyncServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func TestSyncAccountTierSelection(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.accounts.accounts = []*model.Account{account}

	staleUpdate := now.Add(-48 * time.Hour)
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 2)},
		{ID: 2, AccountID: 1, ExternalID: "t2", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 10), UpdatedAt: &staleUpdate},
		{ID: 3, AccountID: 1, ExternalID: "t3", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 40)},
	}

	result, err := f.svc.SyncAccount(context.Background(), account, 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(f.client.fetchCalls) != 2 {
		t.Fatalf("expected 2 detail fetches, got %d (%v)", len(f.client.fetchCalls), f.client.fetchCalls)
	}
	for _, id := range f.client.fetchCalls {
		if id == "t3" {
			t.Fatal("tweet older than tier2 window must not be fetched")
		}
	}
	if result.TweetsSynced != 2 || result.Status != consts.SyncStatusSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSyncAccountSkipsFreshTier2Tweet(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	freshUpdate := now.Add(-1 * time.Hour)
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 10), UpdatedAt: &freshUpdate},
	}

	if _, err := f.svc.SyncAccount(context.Background(), account, 10); err != nil {
		t.Fatal(err)
	}
	if len(f.client.fetchCalls) != 0 {
		t.Fatalf("freshly updated tier2 tweet must be skipped, got %d fetches", len(f.client.fetchCalls))
	}
}

func TestSyncAccountMarksDeletedTweet(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 2)},
	}
	f.client.detailErr = map[string]error{"t1": errors.New("Tweet Not Found or removed")}

	result, err := f.svc.SyncAccount(context.Background(), account, 10)
	if err != nil {
		t.Fatal(err)
	}

	if result.TweetsDeleted != 1 || result.TweetsFailed != 0 {
		t.Fatalf("expected deleted=1 failed=0, got %+v", result)
	}
	if result.Status != consts.SyncStatusSuccess {
		t.Fatalf("deleted tweets are not failures, status was %s", result.Status)
	}
	if f.tweets.tweets[0].Status != consts.TweetStatusDeleted {
		t.Fatalf("tweet status should flip to deleted, got %s", f.tweets.tweets[0].Status)
	}
}

func TestSyncAccountPartialOnFetchError(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 1)},
		{ID: 2, AccountID: 1, ExternalID: "t2", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 2)},
	}
	f.client.detailErr = map[string]error{"t2": errors.New("rate limit exceeded")}

	result, err := f.svc.SyncAccount(context.Background(), account, 10)
	if err != nil {
		t.Fatal(err)
	}

	if result.TweetsSynced != 1 || result.TweetsFailed != 1 {
		t.Fatalf("expected synced=1 failed=1, got %+v", result)
	}
	if result.Status != consts.SyncStatusPartial {
		t.Fatalf("expected partial status, got %s", result.Status)
	}

	status := f.statuses.statuses[1]
	if status == nil || status.Status != consts.SyncStatusPartial {
		t.Fatalf("sync status row not upserted as partial: %+v", status)
	}
	if !status.NextSyncAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("next_sync_at should be now+24h, got %v", status.NextSyncAt)
	}
}

func TestSyncAccountSkipsTweetWithoutExternalID(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 1)},
	}

	result, err := f.svc.SyncAccount(context.Background(), account, 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.TweetsSkipped != 1 || len(f.client.fetchCalls) != 0 {
		t.Fatalf("tweet without external id must be skipped, got %+v", result)
	}
}

func TestSyncAccountWritesSnapshotAndAnalytics(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Content: "big news #launch @press", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 2)},
	}
	f.client.details = map[string]*twitter.TweetDetails{
		"t1": {LikeCount: 10, RetweetCount: 5, ReplyCount: 2, ViewCount: 1000, MediaURLs: []string{"https://cdn.example.com/v/clip.mp4"}},
	}

	if _, err := f.svc.SyncAccount(context.Background(), account, 10); err != nil {
		t.Fatal(err)
	}

	snapKey := "1:" + util.DateString(now)
	snap := f.snapshots.created[snapKey]
	if snap == nil {
		t.Fatal("snapshot for today's date missing")
	}
	if snap.LikeCount != 10 || snap.ImpressionCount != 1000 {
		t.Fatalf("snapshot carries wrong counters: %+v", snap)
	}

	analytics := f.analytics.upserted[1]
	if analytics == nil {
		t.Fatal("content analytics row missing")
	}
	if !analytics.HasVideo || analytics.HasImage {
		t.Fatalf("media flags wrong: %+v", analytics)
	}
	if analytics.MentionCount != 1 || analytics.Hashtags == "" {
		t.Fatalf("content features wrong: %+v", analytics)
	}
	// 10 + 5*2 + 2*1.5 + 1000*0.01
	if analytics.EngagementScore != 33 {
		t.Fatalf("engagement score expected 33, got %v", analytics.EngagementScore)
	}
}

func TestSyncAccountSnapshotIdempotentPerDay(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 2)},
	}

	for i := 0; i < 2; i++ {
		// Tier1 推文每次都会同步，第二次跑快照已存在
		f.tweets.tweets[0].UpdatedAt = nil
		if _, err := f.svc.SyncAccount(context.Background(), account, 10); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.snapshots.created) != 1 {
		t.Fatalf("expected exactly one snapshot row, got %d", len(f.snapshots.created))
	}
}

func TestSyncAccountNoSnapshotOutsideWindow(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)
	f.svc.cfg.Tier2Days = 60 // 放宽分层，让老推文也被同步

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 1, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 45)},
	}

	result, err := f.svc.SyncAccount(context.Background(), account, 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.TweetsSynced != 1 {
		t.Fatalf("expected one synced tweet, got %+v", result)
	}
	if len(f.snapshots.created) != 0 {
		t.Fatal("tweets past the snapshot window must not produce snapshots")
	}
}

func TestSyncAccountMissingUsername(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10}
	if _, err := f.svc.SyncAccount(context.Background(), account, 10); !errors.Is(err, ErrAccountNoUsername) {
		t.Fatalf("expected ErrAccountNoUsername, got %v", err)
	}
}

func TestSyncUserAccountsContinuesPastFailedAccount(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	f.accounts.accounts = []*model.Account{
		{ID: 1, UserID: 10}, // 缺少用户名，账号级失败
		{ID: 2, UserID: 10, Username: "beta"},
	}
	f.tweets.tweets = []*model.Tweet{
		{ID: 1, AccountID: 2, ExternalID: "t1", Status: consts.TweetStatusPosted, PostedAt: daysAgo(now, 1)},
	}

	stats, err := f.svc.SyncUserAccounts(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}

	if stats.AccountsFailed != 1 || stats.AccountsSynced != 1 {
		t.Fatalf("expected one failed and one synced account, got %+v", stats)
	}
	if stats.TweetsSynced != 1 {
		t.Fatalf("sibling account should still sync, got %+v", stats)
	}

	failed := f.statuses.statuses[1]
	if failed == nil || failed.Status != consts.SyncStatusFailed || failed.ErrorMessage == "" {
		t.Fatalf("failed account must get a failed status row: %+v", failed)
	}
}

func TestSyncAccountUpdatesFollowerHistory(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)

	account := &model.Account{ID: 1, UserID: 10, Username: "acme"}
	f.accounts.accounts = []*model.Account{account}
	f.client.analytics = map[string]*twitter.UserAnalytics{
		"acme": {Followers: 1200, Following: 300},
	}

	if _, err := f.svc.SyncAccount(context.Background(), account, 10); err != nil {
		t.Fatal(err)
	}

	if account.FollowerCount != 1200 {
		t.Fatalf("follower count not refreshed: %d", account.FollowerCount)
	}
	if len(f.history.appended) != 1 || f.history.appended[0].FollowerCount != 1200 {
		t.Fatalf("follower history not appended: %+v", f.history.appended)
	}
}
