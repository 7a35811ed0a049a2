// Package service 提供业务逻辑层
// 本文件定义 Service 层接口，Handler 层依赖这些接口而非具体实现
package service

import (
	"linkup_dm_server/internal/dto/respond"
)

// MessageService 历史查询服务接口
type MessageService interface {
	// GetMessageList 获取请求者与指定对端的全部消息，按 (created_at, id) 升序
	// 查询始终以请求者为锚点，天然不会返回第三方的会话
	GetMessageList(requesterId, otherUserId string) ([]respond.MessageRespond, error)
	// GetConversationList 获取请求者的会话列表
	// 每个去重后的对端一条，按最新消息时间降序；
	// 对端用户记录缺失时跳过该会话而不是整体报错
	GetConversationList(requesterId string) ([]respond.ConversationRespond, error)
}

// DeliveryService 消息投递服务接口
// chat.Coordinator 实现了该接口
type DeliveryService interface {
	// Send 校验、持久化并向双方房间广播一条私信
	Send(senderId, receiverId, content string) (*respond.MessageRespond, error)
}
