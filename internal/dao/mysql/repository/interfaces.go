// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"linkup_dm_server/internal/model"
)

// MessageRepository 消息数据访问接口
// 消息表是整个私信子系统的唯一事实来源：只追加，不更新不删除
type MessageRepository interface {
	// Create 持久化一条消息
	Create(message *model.Message) error
	// FindBetween 查找两个用户之间的全部消息（双向），按 (created_at, uuid) 升序
	FindBetween(userOneId, userTwoId string) ([]model.Message, error)
	// FindByUser 查找用户参与的全部消息（作为发送者或接收者），按 (created_at, uuid) 升序
	// 用于派生会话列表；不分页，消息量增长后需改为索引化查询
	FindByUser(userId string) ([]model.Message, error)
}

// UserRepository 用户摘要数据访问接口
// 私信核心对账号子系统的只读视图
type UserRepository interface {
	// FindByUuid 按 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// Create 创建用户（供测试和数据初始化使用）
	Create(user *model.UserInfo) error
}
