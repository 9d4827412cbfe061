package middleware

import (
	"Foryou/internal/pkg/response"
	"Foryou/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StoreRequired 数据库未配置时业务接口直接返回 503
func StoreRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			log.WarnContext(c.Request.Context(), "request rejected: database not configured", "path", c.FullPath())
			response.Fail(c, response.ServiceUnavailable, service.ErrStoreUnavailable.Error())
			return
		}
		c.Next()
	}
}
