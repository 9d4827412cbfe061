package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	TooManyRequests     = 429
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrVideoIDRequired     = errors.New("videoId 不能为空")
	ErrSuspiciousWatchTime = errors.New("观看时长异常")
	ErrInteractionType     = errors.New("不支持的互动类型")
	ErrCommentRequired     = errors.New("评论内容不能为空")
	ErrCommentTooLong      = errors.New("评论内容过长")
	ErrFollowSelf          = errors.New("不能关注自己")
	ErrRateLimited         = errors.New("请求过于频繁")
	ErrUnauthorized        = errors.New("未登录或登录已失效")
	ErrStoreUnavailable    = errors.New("存储不可用")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrVideoIDRequired:     BadRequest,
	ErrSuspiciousWatchTime: BadRequest,
	ErrInteractionType:     BadRequest,
	ErrCommentRequired:     BadRequest,
	ErrCommentTooLong:      BadRequest,
	ErrFollowSelf:          BadRequest,
	ErrRateLimited:         TooManyRequests,
	ErrUnauthorized:        Unauthorized,
	ErrStoreUnavailable:    ServiceUnavailable,
	UnExpectedError:        InternalServerError,
}

// RateLimitError 限流错误，携带建议的重试等待时间
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds 向上取整，至少为 1
func (e *RateLimitError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// StatusOf 返回错误对应的 HTTP 状态码，未知错误返回 500
func StatusOf(err error) (int, error) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, target
		}
	}
	return InternalServerError, nil
}

// classifyStoreErr 连接类错误统一为 ErrStoreUnavailable，其余原样包装
func classifyStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConnectivityError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectivityError(err error) bool {
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isDuplicateError MySQL 唯一键冲突
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
