package middleware

import (
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/redis"
	"Foryou/internal/pkg/response"
	"Foryou/internal/pkg/security"
	"Foryou/internal/service"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, service.ErrUnauthorized.Error())
			return
		}

		revoked, err := isRevoked(c.Request.Context(), tokenString)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "check token revocation failed", "err", err)
			response.Fail(c, response.InternalServerError, service.UnExpectedError.Error())
			return
		}
		if revoked {
			response.Fail(c, response.Unauthorized, service.ErrUnauthorized.Error())
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, service.ErrUnauthorized.Error())
			return
		}

		setUser(c, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// isRevoked 账号服务登出时把签名写入 Redis，未配置 Redis 时跳过
func isRevoked(ctx context.Context, tokenString string) (bool, error) {
	if !redis.Enabled() {
		return false, nil
	}
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return true, nil
	}
	return redis.Exists(ctx, consts.TokenRevokedKey+signature)
}

func setUser(c *gin.Context, userID uint64) {
	c.Set(consts.UserIDKey, userID)
	newCtx := context.WithValue(c.Request.Context(), consts.UserIDKey, userID)
	c.Request = c.Request.WithContext(newCtx)
}
