package guard

import (
	"Foryou/internal/pkg/util"
	"sync"
	"time"
)

const (
	DefaultViewWindow = 60 * time.Second
	DefaultViewLimit  = 120
)

type window struct {
	start time.Time
	count int
}

// ViewRateLimiter 按 (用户, IP 哈希) 计数的固定窗口限流器，窗口过期后整体重置
type ViewRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	size    time.Duration
	limit   int
	now     util.Clock
}

func NewViewRateLimiter(size time.Duration, limit int, now util.Clock) *ViewRateLimiter {
	if size <= 0 {
		size = DefaultViewWindow
	}
	if limit <= 0 {
		limit = DefaultViewLimit
	}
	if now == nil {
		now = time.Now
	}
	return &ViewRateLimiter{
		windows: make(map[string]*window),
		size:    size,
		limit:   limit,
		now:     now,
	}
}

// Allow 计入一次请求；超限时返回 false 以及距窗口重置的剩余时间
func (s *ViewRateLimiter) Allow(key string) (bool, time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= s.size {
		s.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= s.limit {
		return false, w.start.Add(s.size).Sub(now)
	}
	w.count++
	return true, 0
}

// Sweep 清理已过期的窗口，返回清理数量
func (s *ViewRateLimiter) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.start) >= s.size {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len 当前保存的窗口数
func (s *ViewRateLimiter) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// ViewKey 限流键
func ViewKey(userID uint64, ipHash string) string {
	return util.FormatUint(userID) + ":" + ipHash
}
