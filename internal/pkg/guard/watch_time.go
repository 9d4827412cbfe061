package guard

import (
	"errors"
	"fmt"
)

// MaxWatchRatio 上报观看时长超过视频时长的该倍数即视为异常
const MaxWatchRatio = 1.5

var (
	ErrNegativeWatchTime = errors.New("watch time must not be negative")
	ErrWatchTimeTooLong  = errors.New("suspicious_watch_time")
)

// CheckWatchTime 校验观看时长是否可信；视频时长未知 (<=0) 时不做比例校验
func CheckWatchTime(watchTime, duration float64) error {
	if watchTime < 0 || duration < 0 {
		return ErrNegativeWatchTime
	}
	if duration > 0 && watchTime > MaxWatchRatio*duration {
		return fmt.Errorf("%w: %.1f/%.1f", ErrWatchTimeTooLong, watchTime, duration)
	}
	return nil
}
