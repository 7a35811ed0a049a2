// Package model 定义数据库实体模型
// 本文件定义私信消息模型
package model

import (
	"gorm.io/gorm"
)

// Message 私信消息模型
// 对应数据库 message 表
// 消息一经创建即不可变：本系统不提供编辑和删除，会话由
// {send_id, receive_id} 无序对派生，不单独建表
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64 类型 ID，按创建时间单调递增
	// created_at 相同时用于排序裁决
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiveId 接收者 UUID
	ReceiveId string `gorm:"column:receive_id;index;type:char(20);not null;comment:接收者uuid"`

	// Content 消息文本内容，非空
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
