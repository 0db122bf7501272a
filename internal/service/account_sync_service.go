package service

import (
	"Plume/internal/api/config"
	"Plume/internal/api/dto"
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"Plume/internal/pkg/twitter"
	"Plume/internal/pkg/util"
	"Plume/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"golang.org/x/time/rate"
)

// 互动得分权重
const (
	scoreWeightRetweet    = 2.0
	scoreWeightReply      = 1.5
	scoreWeightImpression = 0.01
)

type AccountSyncService interface {
	// SyncUserAccounts 顺序同步该用户全部可同步账号，账号之间做软限速
	SyncUserAccounts(ctx context.Context, userID uint64) (*dto.SyncStats, error)
	// SyncAccount 同步单个账号：先粉丝后推文，推文按分层策略筛选、分批并发拉取
	SyncAccount(ctx context.Context, account *model.Account, userID uint64) (*dto.AccountSyncResult, error)
	GetUserAccountsSyncStatus(ctx context.Context, userID uint64) ([]*dto.AccountSyncStatusDTO, error)
}

type accountSyncServiceImpl struct {
	accountRepo   repository.AccountRepo
	tweetRepo     repository.TweetRepo
	snapshotRepo  repository.SnapshotRepo
	historyRepo   repository.FollowerHistoryRepo
	statusRepo    repository.SyncStatusRepo
	analyticsRepo repository.ContentAnalyticsRepo
	dailyStatRepo repository.DailyStatRepo
	client        twitter.Client
	cfg           config.SyncConfig
	now           func() time.Time
}

func NewAccountSyncService(
	accountRepo repository.AccountRepo,
	tweetRepo repository.TweetRepo,
	snapshotRepo repository.SnapshotRepo,
	historyRepo repository.FollowerHistoryRepo,
	statusRepo repository.SyncStatusRepo,
	analyticsRepo repository.ContentAnalyticsRepo,
	dailyStatRepo repository.DailyStatRepo,
	client twitter.Client,
	cfg config.SyncConfig,
) AccountSyncService {
	return &accountSyncServiceImpl{
		accountRepo:   accountRepo,
		tweetRepo:     tweetRepo,
		snapshotRepo:  snapshotRepo,
		historyRepo:   historyRepo,
		statusRepo:    statusRepo,
		analyticsRepo: analyticsRepo,
		dailyStatRepo: dailyStatRepo,
		client:        client,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (s *accountSyncServiceImpl) SyncUserAccounts(ctx context.Context, userID uint64) (*dto.SyncStats, error) {
	accounts, err := s.accountRepo.GetSyncEnabledByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.SyncStats{
		Results: make([]*dto.AccountSyncResult, 0, len(accounts)),
	}

	// 账号之间的客户端侧限速，首个账号不等待
	limiter := rate.NewLimiter(rate.Every(s.cfg.AccountPause()), 1)

	for _, account := range accounts {
		if err = limiter.Wait(ctx); err != nil {
			return stats, err
		}

		result, syncErr := s.SyncAccount(ctx, account, userID)
		if syncErr != nil {
			// 账号级失败：记录后继续处理其余账号
			log.ErrorContext(ctx, "account sync failed",
				"account_id", account.ID, "err", syncErr)
			s.recordFailure(ctx, account, userID, syncErr)
			stats.AccountsFailed++
			stats.Results = append(stats.Results, &dto.AccountSyncResult{
				AccountID: account.ID,
				Username:  account.Username,
				Status:    consts.SyncStatusFailed,
				Error:     syncErr.Error(),
			})
			continue
		}

		stats.AccountsSynced++
		stats.TweetsSynced += result.TweetsSynced
		stats.TweetsFailed += result.TweetsFailed
		stats.Results = append(stats.Results, result)
	}

	log.InfoContext(ctx, "user accounts sync finished",
		"user_id", userID,
		"accounts_synced", stats.AccountsSynced,
		"accounts_failed", stats.AccountsFailed,
		"tweets_synced", stats.TweetsSynced)

	return stats, nil
}

func (s *accountSyncServiceImpl) SyncAccount(ctx context.Context, account *model.Account, userID uint64) (*dto.AccountSyncResult, error) {
	if account.Username == "" {
		return nil, ErrAccountNoUsername
	}

	now := s.now()

	// 粉丝同步尽力而为，失败不影响推文同步
	if err := s.syncFollowers(ctx, account, now); err != nil {
		log.WarnContext(ctx, "follower sync failed",
			"account_id", account.ID, "username", account.Username, "err", err)
	}

	candidates, err := s.selectTweets(ctx, account.ID, now)
	if err != nil {
		return nil, err
	}

	result := &dto.AccountSyncResult{
		AccountID: account.ID,
		Username:  account.Username,
	}

	batchLimiter := rate.NewLimiter(rate.Every(s.cfg.BatchPause()), 1)
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(candidates); start += batchSize {
		if err = batchLimiter.Wait(ctx); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		for _, outcome := range s.syncBatch(ctx, candidates[start:end], userID, now) {
			switch outcome {
			case outcomeSynced:
				result.TweetsSynced++
			case outcomeDeleted:
				result.TweetsDeleted++
			case outcomeSkipped:
				result.TweetsSkipped++
			case outcomeFailed:
				result.TweetsFailed++
			}
		}
	}

	if err = s.accountRepo.FinishTweetSync(ctx, account.ID, result.TweetsSynced, now); err != nil {
		log.ErrorContext(ctx, "update account sync mark failed", "account_id", account.ID, "err", err)
	}

	s.refreshDailyStat(ctx, account.ID, now)

	// 删除与跳过不算失败
	status := consts.SyncStatusSuccess
	if result.TweetsFailed > 0 {
		status = consts.SyncStatusPartial
	}
	result.Status = status

	if err = s.statusRepo.Upsert(ctx, &model.AccountSyncStatus{
		AccountID:    account.ID,
		UserID:       userID,
		Status:       status,
		TweetsSynced: result.TweetsSynced,
		TweetsFailed: result.TweetsFailed,
		LastSyncAt:   now,
		NextSyncAt:   now.Add(s.cfg.SyncInterval()),
	}); err != nil {
		log.ErrorContext(ctx, "upsert sync status failed", "account_id", account.ID, "err", err)
	}

	log.InfoContext(ctx, "account sync finished",
		"account_id", account.ID,
		"status", status,
		"synced", result.TweetsSynced,
		"deleted", result.TweetsDeleted,
		"skipped", result.TweetsSkipped,
		"failed", result.TweetsFailed)

	return result, nil
}

func (s *accountSyncServiceImpl) GetUserAccountsSyncStatus(ctx context.Context, userID uint64) ([]*dto.AccountSyncStatusDTO, error) {
	statuses, err := s.statusRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AccountSyncStatusDTO, 0, len(statuses))
	if err = copier.Copy(&res, &statuses); err != nil {
		return nil, err
	}
	return res, nil
}

// syncFollowers 刷新账号粉丝数并追加一条历史记录
func (s *accountSyncServiceImpl) syncFollowers(ctx context.Context, account *model.Account, now time.Time) error {
	analytics, err := s.client.GetUserAnalytics(ctx, account.Username)
	if err != nil {
		return err
	}

	if err = s.accountRepo.UpdateFollowerCounts(ctx, account.ID, analytics.Followers, analytics.Following, now); err != nil {
		return err
	}

	return s.historyRepo.Append(ctx, &model.FollowerHistory{
		AccountID:      account.ID,
		FollowerCount:  analytics.Followers,
		FollowingCount: analytics.Following,
		RecordedAt:     now,
	})
}

// selectTweets 分层筛选：
// Tier1（< tier1_days）总是同步；Tier2（tier1_days ~ tier2_days）仅在 updated_at
// 缺失或超过 stale_hours 时同步；更老的推文互动已稳定，不再同步。
func (s *accountSyncServiceImpl) selectTweets(ctx context.Context, accountID uint64, now time.Time) ([]*model.Tweet, error) {
	tier2Cutoff := now.AddDate(0, 0, -s.cfg.Tier2Days)
	tweets, err := s.tweetRepo.GetPostedSince(ctx, accountID, tier2Cutoff, s.cfg.MaxTweetsPerSync)
	if err != nil {
		return nil, err
	}

	tier1Cutoff := now.AddDate(0, 0, -s.cfg.Tier1Days)
	staleBefore := now.Add(-s.cfg.StaleAfter())

	selected := make([]*model.Tweet, 0, len(tweets))
	for _, tweet := range tweets {
		switch {
		case tweet.PostedAt.After(tier1Cutoff):
			selected = append(selected, tweet)
		case tweet.PostedAt.After(tier2Cutoff):
			if tweet.UpdatedAt == nil || tweet.UpdatedAt.Before(staleBefore) {
				selected = append(selected, tweet)
			}
		}
		if len(selected) >= s.cfg.MaxTweetsPerSync {
			break
		}
	}
	return selected, nil
}

type tweetOutcome int

const (
	outcomeSynced tweetOutcome = iota
	outcomeDeleted
	outcomeSkipped
	outcomeFailed
)

// syncBatch 批内并发拉取，单条失败不影响同批其余推文
func (s *accountSyncServiceImpl) syncBatch(ctx context.Context, tweets []*model.Tweet, userID uint64, now time.Time) []tweetOutcome {
	outcomes := make([]tweetOutcome, len(tweets))

	var wg sync.WaitGroup
	for i, tweet := range tweets {
		wg.Add(1)
		go func(i int, tweet *model.Tweet) {
			defer wg.Done()
			outcomes[i] = s.syncTweet(ctx, tweet, userID, now)
		}(i, tweet)
	}
	wg.Wait()

	return outcomes
}

func (s *accountSyncServiceImpl) syncTweet(ctx context.Context, tweet *model.Tweet, userID uint64, now time.Time) tweetOutcome {
	if tweet.ExternalID == "" {
		return outcomeSkipped
	}

	details, err := s.client.GetTweetDetails(ctx, tweet.ExternalID)
	if err != nil {
		if isGoneError(err) {
			// 外部平台报告推文已删除，置状态而非记失败
			if markErr := s.tweetRepo.MarkDeleted(ctx, tweet.ID); markErr != nil {
				log.ErrorContext(ctx, "mark tweet deleted failed", "tweet_id", tweet.ID, "err", markErr)
				return outcomeFailed
			}
			return outcomeDeleted
		}
		log.ErrorContext(ctx, "fetch tweet engagement failed",
			"tweet_id", tweet.ID, "external_id", tweet.ExternalID, "err", err)
		return outcomeFailed
	}

	media, _ := json.Marshal(details.MediaURLs)
	if err = s.tweetRepo.UpdateEngagement(ctx, tweet.ID,
		details.LikeCount, details.RetweetCount, details.ReplyCount, details.ViewCount,
		string(media)); err != nil {
		log.ErrorContext(ctx, "update tweet engagement failed", "tweet_id", tweet.ID, "err", err)
		return outcomeFailed
	}

	// 快照窗口内每天至多一条
	if now.Sub(tweet.PostedAt) <= time.Duration(s.cfg.SnapshotWindowDays)*24*time.Hour {
		if err = s.snapshotRepo.CreateIfAbsent(ctx, &model.EngagementSnapshot{
			TweetID:         tweet.ID,
			SnapshotDate:    util.DateString(now),
			LikeCount:       details.LikeCount,
			RetweetCount:    details.RetweetCount,
			ReplyCount:      details.ReplyCount,
			ImpressionCount: details.ViewCount,
		}); err != nil {
			log.ErrorContext(ctx, "create engagement snapshot failed", "tweet_id", tweet.ID, "err", err)
		}
	}

	if err = s.upsertContentAnalytics(ctx, tweet, userID, details, now); err != nil {
		log.ErrorContext(ctx, "upsert content analytics failed", "tweet_id", tweet.ID, "err", err)
	}

	return outcomeSynced
}

// upsertContentAnalytics 重算推文内容特征
func (s *accountSyncServiceImpl) upsertContentAnalytics(ctx context.Context, tweet *model.Tweet, userID uint64, details *twitter.TweetDetails, now time.Time) error {
	hashtags, _ := json.Marshal(util.ExtractTags(tweet.Content))
	hasImage, hasVideo, hasGif := classifyMedia(details.MediaURLs)

	return s.analyticsRepo.Upsert(ctx, &model.ContentAnalytics{
		TweetID:         tweet.ID,
		AccountID:       tweet.AccountID,
		UserID:          userID,
		HasImage:        hasImage,
		HasVideo:        hasVideo,
		HasGif:          hasGif,
		Hashtags:        string(hashtags),
		MentionCount:    util.CountMentions(tweet.Content),
		CharCount:       utf8.RuneCountInString(tweet.Content),
		PostHour:        tweet.PostedAt.Hour(),
		PostDay:         int(tweet.PostedAt.Weekday()),
		EngagementScore: engagementScore(details),
		ComputedAt:      now,
	})
}

// refreshDailyStat 推文同步收尾时刷写当天的账号级汇总
func (s *accountSyncServiceImpl) refreshDailyStat(ctx context.Context, accountID uint64, now time.Time) {
	totals, err := s.tweetRepo.EngagementTotals(ctx, accountID)
	if err != nil {
		log.ErrorContext(ctx, "aggregate engagement totals failed", "account_id", accountID, "err", err)
		return
	}

	if err = s.dailyStatRepo.Upsert(ctx, &model.DailyStat{
		AccountID:        accountID,
		StatDate:         util.DateString(now),
		TweetCount:       totals.TweetCount,
		TotalLikes:       totals.TotalLikes,
		TotalRetweets:    totals.TotalRetweets,
		TotalReplies:     totals.TotalReplies,
		TotalImpressions: totals.TotalImpressions,
	}); err != nil {
		log.ErrorContext(ctx, "upsert daily stat failed", "account_id", accountID, "err", err)
	}
}

func (s *accountSyncServiceImpl) recordFailure(ctx context.Context, account *model.Account, userID uint64, syncErr error) {
	now := s.now()
	if err := s.statusRepo.Upsert(ctx, &model.AccountSyncStatus{
		AccountID:    account.ID,
		UserID:       userID,
		Status:       consts.SyncStatusFailed,
		ErrorMessage: syncErr.Error(),
		LastSyncAt:   now,
		NextSyncAt:   now.Add(s.cfg.SyncInterval()),
	}); err != nil {
		log.ErrorContext(ctx, "upsert failed sync status failed", "account_id", account.ID, "err", err)
	}
}

// isGoneError 按错误文本识别外部平台的永久删除回报
func isGoneError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "deleted")
}

func engagementScore(details *twitter.TweetDetails) float64 {
	return float64(details.LikeCount) +
		float64(details.RetweetCount)*scoreWeightRetweet +
		float64(details.ReplyCount)*scoreWeightReply +
		float64(details.ViewCount)*scoreWeightImpression
}

func classifyMedia(urls []string) (hasImage, hasVideo, hasGif bool) {
	for _, u := range urls {
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, ".mp4") || strings.Contains(lower, "/video/"):
			hasVideo = true
		case strings.Contains(lower, ".gif"):
			hasGif = true
		default:
			hasImage = true
		}
	}
	return
}
