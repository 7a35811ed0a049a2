// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"linkup_dm_server/internal/dao/mysql/repository"
	myredis "linkup_dm_server/internal/dao/redis"
	"linkup_dm_server/internal/service/message"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Message  MessageService  // 历史查询 Service
	Delivery DeliveryService // 投递 Service（chat.Coordinator）
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// cache: 异步缓存服务（可为 nil）
// delivery: 投递协调器
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, delivery DeliveryService) *Services {
	return &Services{
		Message:  message.NewMessageService(repos, cache),
		Delivery: delivery,
	}
}
