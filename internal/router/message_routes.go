// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	rg.GET("/conversations", rt.handlers.Message.GetConversationList)      // 会话列表，按最新消息降序
	rg.GET("/messages/:other_user_id", rt.handlers.Message.GetMessageList) // 与指定对端的聊天记录
	rg.POST("/messages", rt.handlers.Message.SendMessage)                  // 发送私信（REST 路径）
}
