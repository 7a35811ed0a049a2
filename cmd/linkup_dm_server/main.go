package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"linkup_dm_server/internal/config"
	dao "linkup_dm_server/internal/dao/mysql"
	myredis "linkup_dm_server/internal/dao/redis"
	"linkup_dm_server/internal/handler"
	"linkup_dm_server/internal/httpserver"
	"linkup_dm_server/internal/infrastructure/logger"
	"linkup_dm_server/internal/service"
	"linkup_dm_server/internal/service/chat"
	"linkup_dm_server/pkg/util/jwt"
	"linkup_dm_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis 缓存
	cache := myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化雪花算法节点
	snowflake.Init()

	// 7. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}

	// 8. 组装实时核心 (依赖注入)
	// Hub 是注入的实例对象而非包级单例，便于多实例隔离测试
	hub := chat.NewHub()
	coordinator := chat.NewCoordinator(repos.Message, hub, cache)
	gateway := chat.NewGateway(hub, coordinator)
	zap.L().Info("实时核心初始化成功")

	// 9. 初始化 Service 层和 Handler 层
	svcs := service.NewServices(repos, cache, coordinator)
	handlers := handler.NewHandlers(svcs, gateway)

	// 10. 初始化 HTTP 服务器
	engine := httpserver.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	// 11. 启动服务
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	go func() {
		if err := engine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault")
			return
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")

	// 断开所有实时连接
	hub.Close()

	zap.L().Info("服务器已关闭")
}
