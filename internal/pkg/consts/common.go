package consts

const (
	TweetStatusPosted    = "posted"
	TweetStatusScheduled = "scheduled"
	TweetStatusDeleted   = "deleted"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

const (
	InsightTypeBestTime        = "best_time"
	InsightTypeContentType     = "content_type"
	InsightTypeInactiveAccount = "inactive_account"
	InsightTypeTopHashtag      = "top_hashtag"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// 内容类型优先级：video > image > gif > text
const (
	ContentTypeVideo = "video"
	ContentTypeImage = "image"
	ContentTypeGif   = "gif"
	ContentTypeText  = "text"
)
