package job

import (
	"Foryou/internal/pkg/guard"
	"Foryou/internal/pkg/logger"
	"context"
	log "log/slog"
)

// RateLimitSweepJob 清理限流器中已过期的窗口
type RateLimitSweepJob struct {
	limiter *guard.ViewRateLimiter
}

func NewRateLimitSweepJob(limiter *guard.ViewRateLimiter) *RateLimitSweepJob {
	return &RateLimitSweepJob{limiter: limiter}
}

func (s *RateLimitSweepJob) Run() {
	removed := s.limiter.Sweep()
	if removed > 0 {
		ctx := logger.NewJobContext(context.Background(), "ratelimit")
		log.DebugContext(ctx, "rate limit windows swept", "removed", removed)
	}
}
