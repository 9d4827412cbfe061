package middleware

import (
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(consts.UserIDKey, uint64(0))
			c.Next()
			return
		}

		claims, err := security.ValidateToken(token)
		if err != nil {
			c.Set(consts.UserIDKey, uint64(0))
		} else {
			setUser(c, claims.UserID)
		}

		c.Next()
	}
}
