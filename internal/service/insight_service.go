package service

import (
	"Plume/internal/api/dto"
	"Plume/internal/model"
	"Plume/internal/pkg/consts"
	"Plume/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// 各洞察类型的生成门槛
const (
	bestTimeMinSamples    = 3
	contentTypeMinSamples = 5
	contentTypeMinKinds   = 2
	contentTypeMinRatio   = 1.5
	topHashtagMinUses     = 3
	inactiveThresholdDays = 5
	insightExpiryDays     = 7
	inactiveExpiryDays    = 3
)

type InsightService interface {
	// GenerateAllInsights 先删过期洞察再依次运行各生成器，单个生成器失败只记入错误列表
	GenerateAllInsights(ctx context.Context, userID uint64) (*dto.InsightGenerationResult, error)
	GetActiveInsights(ctx context.Context, userID uint64) ([]*dto.InsightDTO, error)
	DismissInsight(ctx context.Context, userID uint64, insightID uint64) error
}

type insightServiceImpl struct {
	insightRepo   repository.InsightRepo
	analyticsRepo repository.ContentAnalyticsRepo
	accountRepo   repository.AccountRepo
	tweetRepo     repository.TweetRepo
	now           func() time.Time
}

func NewInsightService(
	insightRepo repository.InsightRepo,
	analyticsRepo repository.ContentAnalyticsRepo,
	accountRepo repository.AccountRepo,
	tweetRepo repository.TweetRepo,
) InsightService {
	return &insightServiceImpl{
		insightRepo:   insightRepo,
		analyticsRepo: analyticsRepo,
		accountRepo:   accountRepo,
		tweetRepo:     tweetRepo,
		now:           time.Now,
	}
}

func (s *insightServiceImpl) GenerateAllInsights(ctx context.Context, userID uint64) (*dto.InsightGenerationResult, error) {
	now := s.now()
	result := &dto.InsightGenerationResult{}

	// 重新生成前先清掉已过期的，避免 storeInsight 复用过期行
	if _, err := s.insightRepo.DeleteExpired(ctx, userID, now); err != nil {
		return nil, err
	}

	type generator struct {
		name string
		run  func(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error)
	}
	generators := []generator{
		{consts.InsightTypeBestTime, s.generateBestTime},
		{consts.InsightTypeContentType, s.generateContentType},
		{consts.InsightTypeInactiveAccount, s.generateInactiveAccounts},
		{consts.InsightTypeTopHashtag, s.generateTopHashtag},
	}

	for _, gen := range generators {
		insights, err := gen.run(ctx, userID, now)
		if err != nil {
			log.ErrorContext(ctx, "insight generator failed",
				"user_id", userID, "generator", gen.name, "err", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", gen.name, err))
			continue
		}
		for _, insight := range insights {
			if err = s.storeInsight(ctx, insight, now); err != nil {
				log.ErrorContext(ctx, "store insight failed",
					"user_id", userID, "generator", gen.name, "err", err)
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", gen.name, err))
				continue
			}
			result.Generated++
		}
	}

	log.InfoContext(ctx, "insight generation finished",
		"user_id", userID, "generated", result.Generated, "errors", len(result.Errors))

	return result, nil
}

func (s *insightServiceImpl) GetActiveInsights(ctx context.Context, userID uint64) ([]*dto.InsightDTO, error) {
	insights, err := s.insightRepo.ListActive(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InsightDTO, 0, len(insights))
	if err = copier.Copy(&res, &insights); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *insightServiceImpl) DismissInsight(ctx context.Context, userID uint64, insightID uint64) error {
	affected, err := s.insightRepo.Dismiss(ctx, userID, insightID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

// storeInsight 同一 (user_id, insight_type) 存在活跃行时原地更新，否则新建
func (s *insightServiceImpl) storeInsight(ctx context.Context, insight *model.Insight, now time.Time) error {
	existing, err := s.insightRepo.GetActive(ctx, insight.UserID, insight.InsightType, now)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.insightRepo.Create(ctx, insight)
	}

	existing.Title = insight.Title
	existing.Description = insight.Description
	existing.Priority = insight.Priority
	existing.Data = insight.Data
	existing.GeneratedAt = insight.GeneratedAt
	existing.ExpiresAt = insight.ExpiresAt
	return s.insightRepo.Update(ctx, existing)
}

// generateBestTime 挑选平均互动最高的 (小时, 星期) 桶
func (s *insightServiceImpl) generateBestTime(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	buckets, err := s.analyticsRepo.TimeBuckets(ctx, userID)
	if err != nil {
		return nil, err
	}

	var best *repository.TimeBucket
	for _, bucket := range buckets {
		if bucket.SampleCount < bestTimeMinSamples {
			continue
		}
		if best == nil || bucket.AvgEngagement > best.AvgEngagement {
			best = bucket
		}
	}
	if best == nil {
		return nil, nil
	}

	priority := consts.PriorityLow
	switch {
	case best.AvgEngagement > 50:
		priority = consts.PriorityHigh
	case best.AvgEngagement > 20:
		priority = consts.PriorityMedium
	}

	data, _ := json.Marshal(map[string]any{
		"hour":           best.PostHour,
		"day":            best.PostDay,
		"avg_engagement": best.AvgEngagement,
		"sample_count":   best.SampleCount,
	})

	return []*model.Insight{{
		UserID:      userID,
		InsightType: consts.InsightTypeBestTime,
		Title:       "发布时间建议",
		Description: fmt.Sprintf("%s %02d:00 左右发布的推文平均互动最高（%.1f）", weekdayName(best.PostDay), best.PostHour, best.AvgEngagement),
		Priority:    priority,
		Data:        string(data),
		GeneratedAt: now,
		ExpiresAt:   now.AddDate(0, 0, insightExpiryDays),
	}}, nil
}

// generateContentType 对比各内容类型的平均互动，优势不足 1.5 倍不出结论
func (s *insightServiceImpl) generateContentType(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	stats, err := s.analyticsRepo.ContentTypeStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	qualified := make([]*repository.ContentTypeStat, 0, len(stats))
	for _, stat := range stats {
		if stat.SampleCount >= contentTypeMinSamples {
			qualified = append(qualified, stat)
		}
	}
	if len(qualified) < contentTypeMinKinds {
		return nil, nil
	}

	best := qualified[0]
	for _, stat := range qualified[1:] {
		if stat.AvgEngagement > best.AvgEngagement {
			best = stat
		}
	}

	// 基线取其余类型的平均
	var baseline float64
	for _, stat := range qualified {
		if stat != best {
			baseline += stat.AvgEngagement
		}
	}
	baseline /= float64(len(qualified) - 1)
	if baseline <= 0 {
		return nil, nil
	}

	ratio := best.AvgEngagement / baseline
	if ratio < contentTypeMinRatio {
		return nil, nil
	}

	priority := consts.PriorityLow
	switch {
	case ratio > 3:
		priority = consts.PriorityHigh
	case ratio > 2:
		priority = consts.PriorityMedium
	}

	data, _ := json.Marshal(map[string]any{
		"content_type":   best.ContentType,
		"avg_engagement": best.AvgEngagement,
		"ratio":          ratio,
	})

	return []*model.Insight{{
		UserID:      userID,
		InsightType: consts.InsightTypeContentType,
		Title:       "内容类型建议",
		Description: fmt.Sprintf("%s 类内容的平均互动是其他类型的 %.1f 倍", contentTypeName(best.ContentType), ratio),
		Priority:    priority,
		Data:        string(data),
		GeneratedAt: now,
		ExpiresAt:   now.AddDate(0, 0, insightExpiryDays),
	}}, nil
}

// generateInactiveAccounts 每个沉寂账号各生成一条
func (s *insightServiceImpl) generateInactiveAccounts(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	accounts, err := s.accountRepo.GetSyncEnabledByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights := make([]*model.Insight, 0)
	for _, account := range accounts {
		latest, err := s.tweetRepo.LatestPostedAt(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		var idleDays int
		var description string
		if latest == nil {
			// 从未发布按最高档处理
			idleDays = inactiveThresholdDays * 3
			description = fmt.Sprintf("账号 @%s 还没有发布过任何推文", account.Username)
		} else {
			idleDays = int(now.Sub(*latest).Hours() / 24)
			if idleDays < inactiveThresholdDays {
				continue
			}
			description = fmt.Sprintf("账号 @%s 已经 %d 天没有发布新推文", account.Username, idleDays)
		}

		priority := consts.PriorityLow
		switch {
		case idleDays >= 14:
			priority = consts.PriorityHigh
		case idleDays >= 7:
			priority = consts.PriorityMedium
		}

		data, _ := json.Marshal(map[string]any{
			"account_id": account.ID,
			"username":   account.Username,
			"idle_days":  idleDays,
		})

		insights = append(insights, &model.Insight{
			UserID:      userID,
			InsightType: consts.InsightTypeInactiveAccount,
			Title:       "账号活跃度提醒",
			Description: description,
			Priority:    priority,
			Data:        string(data),
			GeneratedAt: now,
			ExpiresAt:   now.AddDate(0, 0, inactiveExpiryDays),
		})
	}
	return insights, nil
}

// generateTopHashtag 标签列表存的是 JSON 文本，聚合在应用侧完成
func (s *insightServiceImpl) generateTopHashtag(ctx context.Context, userID uint64, now time.Time) ([]*model.Insight, error) {
	rows, err := s.analyticsRepo.HashtagRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	type tagAgg struct {
		uses  int
		total float64
	}
	aggs := make(map[string]*tagAgg)
	for _, row := range rows {
		if row.Hashtags == "" {
			continue
		}
		var tags []string
		if err = json.Unmarshal([]byte(row.Hashtags), &tags); err != nil {
			log.WarnContext(ctx, "invalid hashtag payload skipped", "user_id", userID, "err", err)
			continue
		}
		for _, tag := range tags {
			agg, ok := aggs[tag]
			if !ok {
				agg = &tagAgg{}
				aggs[tag] = agg
			}
			agg.uses++
			agg.total += row.EngagementScore
		}
	}

	var bestTag string
	var bestAvg float64
	var bestUses int
	for tag, agg := range aggs {
		if agg.uses < topHashtagMinUses {
			continue
		}
		avg := agg.total / float64(agg.uses)
		if bestTag == "" || avg > bestAvg {
			bestTag, bestAvg, bestUses = tag, avg, agg.uses
		}
	}
	if bestTag == "" {
		return nil, nil
	}

	priority := consts.PriorityLow
	switch {
	case bestAvg > 50:
		priority = consts.PriorityHigh
	case bestAvg > 20:
		priority = consts.PriorityMedium
	}

	data, _ := json.Marshal(map[string]any{
		"hashtag":        bestTag,
		"uses":           bestUses,
		"avg_engagement": bestAvg,
	})

	return []*model.Insight{{
		UserID:      userID,
		InsightType: consts.InsightTypeTopHashtag,
		Title:       "话题标签建议",
		Description: fmt.Sprintf("#%s 在 %d 条推文中的平均互动达到 %.1f", bestTag, bestUses, bestAvg),
		Priority:    priority,
		Data:        string(data),
		GeneratedAt: now,
		ExpiresAt:   now.AddDate(0, 0, insightExpiryDays),
	}}, nil
}

var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func weekdayName(day int) string {
	if day < 0 || day >= len(weekdayNames) {
		return "未知"
	}
	return weekdayNames[day]
}

func contentTypeName(contentType string) string {
	switch contentType {
	case consts.ContentTypeVideo:
		return "视频"
	case consts.ContentTypeImage:
		return "图片"
	case consts.ContentTypeGif:
		return "动图"
	default:
		return "纯文本"
	}
}
