package twitter

import (
	"Plume/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.TwitterConfig{
		BaseURL:        srv.URL,
		BearerToken:    "test-token",
		TimeoutSeconds: 2,
	})
}

func TestGetTweetDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweets/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Fatal("bearer token missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"likeCount":12,"retweetCount":3,"replyCount":1,"viewCount":500,"media":["https://cdn.example.com/a.jpg"]}`))
	})

	details, err := client.GetTweetDetails(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}
	if details.LikeCount != 12 || details.ViewCount != 500 || len(details.MediaURLs) != 1 {
		t.Fatalf("payload decoded wrong: %+v", details)
	}
}

func TestGetTweetDetailsGone(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusGone} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})

		_, err := client.GetTweetDetails(context.Background(), "42")
		if err == nil {
			t.Fatalf("status %d should produce an error", code)
		}
		// 同步服务依赖该错误文案识别永久删除
		if !strings.Contains(strings.ToLower(err.Error()), "not found") {
			t.Fatalf("error text must mention not found, got %q", err.Error())
		}
	}
}

func TestGetUserAnalytics(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/acme/analytics" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"followers":1200,"following":300}`))
	})

	analytics, err := client.GetUserAnalytics(context.Background(), "acme")
	if err != nil {
		t.Fatal(err)
	}
	if analytics.Followers != 1200 || analytics.Following != 300 {
		t.Fatalf("payload decoded wrong: %+v", analytics)
	}
}
