package server

import (
	"time"

	"msgboard/internal/auth"
	"msgboard/internal/config"
	"msgboard/internal/metrics"
	"msgboard/internal/mw"
	"msgboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter 统一初始化 Gin 中间件与全部 REST 端点。
func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	tokens := service.NewTokenService(db, time.Duration(cfg.TokenTTLHours)*time.Hour)
	msgs := service.NewMessageService(db)
	h := NewHandler(tokens, msgs)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	// 控制单个 IP+路由的速率，轮询型客户端也不该刷穿这个值。
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/", h.Root)
	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/:username", h.Authenticate)

	// 需要 Bearer Token 的业务接口。
	authed := r.Group("")
	authed.Use(auth.Middleware(tokens))

	authed.POST("/participants", h.SendBroadcast)
	authed.POST("/participants/:to_user", h.SendDirect)
	authed.GET("/messages", h.ListMessages)
	authed.GET("/participants", h.ListBroadcasts)
	authed.GET("/participants/:username", h.ListDirect)

	return r
}
