package mw

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID 给每个请求附加一个关联 ID，客户端带了就沿用，否则新生成。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 取出当前请求的关联 ID。
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get("requestID"); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}
	return ""
}
