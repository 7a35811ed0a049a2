// Package model 定义数据库实体模型
// 本文件定义用户摘要模型
// 用户的注册、登录与资料维护属于平台的账号子系统，
// 私信核心只读取本表做会话列表的身份补全
package model

import (
	"gorm.io/gorm"
)

// UserInfo 用户摘要模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:用户uuid"`

	// Nickname 用户昵称
	Nickname string `gorm:"column:nickname;type:varchar(20);not null;comment:昵称"`

	// Avatar 用户头像
	// 存储相对路径如 "/static/avatars/xxx.jpg"
	Avatar string `gorm:"column:avatar;type:varchar(255);not null;comment:头像"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}
