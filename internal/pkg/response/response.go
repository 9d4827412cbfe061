package response

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/service"
	"errors"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = http.StatusOK
	BadRequest          = http.StatusBadRequest
	Unauthorized        = http.StatusUnauthorized
	TooManyRequests     = http.StatusTooManyRequests
	InternalServerError = http.StatusInternalServerError
	ServiceUnavailable  = http.StatusServiceUnavailable
)

// Success 成功直接返回数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(Ok, data)
}

// Fail 失败返回 {"error": message} 并中断后续处理
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, service.ErrParamInvalid.Error())
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	var rateLimitErr *service.RateLimitError
	if errors.As(err, &rateLimitErr) {
		secs := rateLimitErr.RetryAfterSeconds()
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(TooManyRequests, dto.ErrorResponse{
			Error:      service.ErrRateLimited.Error(),
			RetryAfter: secs,
		})
		return
	}

	code, target := service.StatusOf(err)
	if target == nil {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	if code >= InternalServerError {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
	}
	Fail(c, code, target.Error())
}
