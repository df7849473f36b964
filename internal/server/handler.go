package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"msgboard/internal/auth"
	"msgboard/internal/metrics"
	"msgboard/internal/mw"
	"msgboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	tokens *service.TokenService
	msgs   *service.MessageService
}

func NewHandler(tokens *service.TokenService, msgs *service.MessageService) *Handler {
	return &Handler{tokens: tokens, msgs: msgs}
}

// Root 存活探针。
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping 返回服务器当前 UTC 时间。
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pong": true, "time": time.Now().UTC().Format(time.RFC3339Nano)})
}

// Authenticate 校验 codeword 并签发 Bearer token。
func (h *Handler) Authenticate(c *gin.Context) {
	username := c.Param("username")
	var req struct {
		Codeword *string `json:"codeword"`
	}
	// 空字符串的 codeword 也要走凭证比对（403），只有字段缺失才算坏请求。
	if err := c.ShouldBindJSON(&req); err != nil || req.Codeword == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	rec, err := h.tokens.Issue(username, *req.Codeword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid codeword"})
			return
		}
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Str("username", username).Msg("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auth failed"})
		return
	}
	metrics.TokensIssuedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"token": rec.Token, "expires": rec.Expires.UTC()})
}

type messageIn struct {
	ReplyToMessageID *int64 `json:"reply_to_message_id"`
	Message          string `json:"message"`
}

// SendBroadcast 发送一条广播消息，发件人取自已认证的调用方。
func (h *Handler) SendBroadcast(c *gin.Context) {
	var req messageIn
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	from := auth.GetUsername(c)
	if _, err := h.msgs.Append(from, nil, req.Message, req.ReplyToMessageID); err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Str("from", from).Msg("append broadcast")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	metrics.MessagesStoredTotal.WithLabelValues("broadcast").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SendDirect 发送一条私信。收件人是自由引用，不要求已注册。
func (h *Handler) SendDirect(c *gin.Context) {
	to := c.Param("to_user")
	var req messageIn
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	from := auth.GetUsername(c)
	if _, err := h.msgs.Append(from, &to, req.Message, req.ReplyToMessageID); err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Str("from", from).Str("to", to).Msg("append direct")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	metrics.MessagesStoredTotal.WithLabelValues("direct").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListMessages 通用消息查询。任何已认证调用方都可以按任意收发人过滤。
func (h *Handler) ListMessages(c *gin.Context) {
	f := service.Filter{
		MinID:    queryInt64(c, "from_id", 0),
		FromUser: c.Query("from_user"),
		ToUser:   c.Query("to_user"),
		Limit:    int(queryInt64(c, "limit", 100)),
	}
	out, err := h.msgs.Query(f)
	if err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Msg("query messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListBroadcasts 返回游标之后的广播流。
func (h *Handler) ListBroadcasts(c *gin.Context) {
	out, err := h.msgs.Broadcasts(queryInt64(c, "from_id", 0))
	if err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Msg("query broadcasts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListDirect 返回指定用户的私信收件箱，只有本人可以读。
func (h *Handler) ListDirect(c *gin.Context) {
	username := c.Param("username")
	if username != auth.GetUsername(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only request your own messages"})
		return
	}
	out, err := h.msgs.Direct(queryInt64(c, "from_id", 0), username)
	if err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Str("username", username).Msg("query direct")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	s := c.Query(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
