package cache

import (
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Type 分析缓存的类别，决定 TTL
type Type string

const (
	TypeDashboard  Type = "dashboard"
	TypeOverview   Type = "overview"
	TypeEngagement Type = "engagement"
	TypeContentMix Type = "contentMix"
	TypeHashtags   Type = "hashtags"
)

// 各类别的 TTL
var defaultTTLs = map[Type]time.Duration{
	TypeDashboard:  60 * time.Second,
	TypeOverview:   5 * time.Minute,
	TypeEngagement: 15 * time.Minute,
	TypeContentMix: 30 * time.Minute,
	TypeHashtags:   60 * time.Minute,
}

const sweepInterval = 5 * time.Minute

// Key 结构化缓存键，避免字符串拼接带来的冲突
type Key struct {
	Type   Type
	UserID uint64
	Params string // 参数的规范化 JSON，无参数时为空
}

func (k Key) String() string {
	return string(k.Type) + ":" + strconv.FormatUint(k.UserID, 10) + ":" + k.Params
}

type entry struct {
	data       any
	computedAt time.Time
	expiresAt  time.Time
}

// Stats 缓存运行状态
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ComputeFunc 缓存未命中时的回源计算
type ComputeFunc func(ctx context.Context) (any, error)

// AnalyticsCache 进程内 TTL 缓存，不做任何持久化，进程重启即清空
type AnalyticsCache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	ttls    map[Type]time.Duration
	now     func() time.Time

	hits   int64
	misses int64

	stopOnce sync.Once
	stop     chan struct{}
}

// NewAnalyticsCache 构造缓存实例并启动后台过期清扫
func NewAnalyticsCache() *AnalyticsCache {
	c := newAnalyticsCache(time.Now)
	go c.sweepLoop()
	return c
}

func newAnalyticsCache(now func() time.Time) *AnalyticsCache {
	return &AnalyticsCache{
		entries: make(map[Key]*entry),
		ttls:    defaultTTLs,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// GetCachedAnalytics 命中且未过期时直接返回缓存值，否则调用 compute 并写入缓存
func (c *AnalyticsCache) GetCachedAnalytics(ctx context.Context, typ Type, userID uint64, compute ComputeFunc, params any) (any, error) {
	key := Key{Type: typ, UserID: userID, Params: canonicalParams(params)}
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.data, nil
	}

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	ttl, ok := c.ttls[typ]
	if !ok {
		ttl = time.Minute
	}

	c.mu.Lock()
	c.misses++
	c.entries[key] = &entry{
		data:       data,
		computedAt: now,
		expiresAt:  now.Add(ttl),
	}
	c.mu.Unlock()

	return data, nil
}

// InvalidateUser 移除该用户的缓存，types 为空时清除全部类别
func (c *AnalyticsCache) InvalidateUser(userID uint64, types ...Type) int {
	infix := ":" + strconv.FormatUint(userID, 10) + ":"

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if key.UserID != userID {
			continue
		}
		if len(types) > 0 && !typeMatch(key.Type, types) {
			continue
		}
		// 结构化键本身已够用，保留字符串校验防止键构造方式变更后悄悄失配
		if !strings.Contains(key.String(), infix) {
			continue
		}
		delete(c.entries, key)
		removed++
	}
	return removed
}

// InvalidateAll 清空整个缓存
func (c *AnalyticsCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[Key]*entry)
	c.mu.Unlock()
}

// GetStats 返回条目数与命中统计
func (c *AnalyticsCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Stop 停止后台清扫
func (c *AnalyticsCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *AnalyticsCache) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			removed := c.sweep()
			if removed > 0 {
				log.Info("analytics cache sweep", "removed", removed)
			}
		}
	}
}

func (c *AnalyticsCache) sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func typeMatch(t Type, types []Type) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}

func canonicalParams(params any) string {
	if params == nil {
		return ""
	}
	b, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(b)
}
