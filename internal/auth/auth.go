package auth

import (
	"errors"
	"net/http"
	"strings"

	"msgboard/internal/mw"
	"msgboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const userKey = "username"

// Middleware 校验 Authorization: Bearer 头并把调用方用户名写入请求上下文。
func Middleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		username, err := tokens.Validate(tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Msg("validate token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth failed"})
			return
		}
		c.Set(userKey, username)
		c.Next()
	}
}

// GetUsername 取出中间件写入的调用方用户名。
func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(userKey); ok {
		if name, ok2 := v.(string); ok2 {
			return name
		}
	}
	return ""
}
