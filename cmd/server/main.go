package main

import (
	"msgboard/internal/config"
	"msgboard/internal/db"
	clog "msgboard/internal/log"
	"msgboard/internal/server"
	"msgboard/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 函数负责加载配置、初始化日志、连接数据库、引导用户并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env)

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	// 引导失败只影响本批配置用户，不阻止服务启动。
	if err := service.NewUserService(gdb).Bootstrap(cfg.UsersJSON); err != nil {
		log.Warn().Err(err).Msg("bootstrap users")
	}

	r := server.SetupRouter(cfg, gdb)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
