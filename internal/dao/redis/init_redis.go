// Package redis 提供 Redis 连接的初始化
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"linkup_dm_server/internal/config"
)

// Init 建立 Redis 连接并返回缓存服务实例
// 连接失败只告警不退出：缓存是可降级依赖，
// 历史查询在缓存缺失时直接回源数据库
func Init() *RedisCache {
	conf := config.GetConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.RedisConfig.Host, conf.RedisConfig.Port),
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis ping failed, cache will fall back to database", zap.Error(err))
	}

	workerNum := conf.CacheConfig.WorkerNum
	if workerNum <= 0 {
		workerNum = 4
	}
	bufferSize := conf.CacheConfig.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}

	return NewRedisCache(client, workerNum, bufferSize)
}
