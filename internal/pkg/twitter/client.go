package twitter

import (
	"Plume/internal/api/config"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// TweetDetails 外部平台返回的单条推文互动数据
type TweetDetails struct {
	LikeCount    int      `json:"likeCount"`
	RetweetCount int      `json:"retweetCount"`
	ReplyCount   int      `json:"replyCount"`
	ViewCount    int      `json:"viewCount"`
	MediaURLs    []string `json:"media"`
}

// UserAnalytics 外部平台返回的账号粉丝数据
type UserAnalytics struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// Client 互动数据 API 的抽象，同步服务只依赖该接口
type Client interface {
	GetTweetDetails(ctx context.Context, externalID string) (*TweetDetails, error)
	GetUserAnalytics(ctx context.Context, username string) (*UserAnalytics, error)
}

type restyClient struct {
	http *resty.Client
}

// NewClient 构造基于 resty 的 API 客户端
func NewClient(cfg config.TwitterConfig) Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetAuthToken(cfg.BearerToken).
		SetHeader("Accept", "application/json")

	return &restyClient{http: client}
}

func (c *restyClient) GetTweetDetails(ctx context.Context, externalID string) (*TweetDetails, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/tweets/" + externalID)
	if err != nil {
		return nil, fmt.Errorf("fetch tweet %s: %w", externalID, err)
	}

	if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusGone {
		// 同步服务按错误文本识别永久删除，文案需保持稳定
		return nil, fmt.Errorf("tweet %s not found or deleted", externalID)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch tweet %s: unexpected status %d", externalID, resp.StatusCode())
	}

	var details TweetDetails
	if err := json.Unmarshal(resp.Body(), &details); err != nil {
		return nil, fmt.Errorf("decode tweet %s: %w", externalID, err)
	}
	return &details, nil
}

func (c *restyClient) GetUserAnalytics(ctx context.Context, username string) (*UserAnalytics, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/users/" + username + "/analytics")
	if err != nil {
		return nil, fmt.Errorf("fetch user analytics %s: %w", username, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch user analytics %s: unexpected status %d", username, resp.StatusCode())
	}

	var analytics UserAnalytics
	if err := json.Unmarshal(resp.Body(), &analytics); err != nil {
		return nil, fmt.Errorf("decode user analytics %s: %w", username, err)
	}
	return &analytics, nil
}
