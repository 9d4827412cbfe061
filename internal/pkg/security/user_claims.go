package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTExpirationTime = time.Hour * 24
	DefaultIssuer     = "Foryou"
)

// UserClaims Token 中携带的身份信息，由账号服务签发
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
