// Package handler 提供 HTTP 请求处理器
// 本文件处理私信历史查询与发送相关的 API 请求
package handler

import (
	"linkup_dm_server/internal/dto/request"
	"linkup_dm_server/internal/service"
	"linkup_dm_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 私信请求处理器
// 发送接口只是投递协调器之上的薄适配层，
// 与 WebSocket 发送路径共用同一套校验和广播逻辑
type MessageHandler struct {
	messageSvc  service.MessageService
	deliverySvc service.DeliveryService
}

// NewMessageHandler 创建消息 Handler
func NewMessageHandler(messageSvc service.MessageService, deliverySvc service.DeliveryService) *MessageHandler {
	return &MessageHandler{
		messageSvc:  messageSvc,
		deliverySvc: deliverySvc,
	}
}

// GetConversationList 获取会话列表
// GET /api/conversations
// 请求者身份取自认证中间件写入的 user_id
func (h *MessageHandler) GetConversationList(c *gin.Context) {
	requesterId := c.GetString("user_id")
	data, err := h.messageSvc.GetConversationList(requesterId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageList 获取与指定对端的聊天记录
// GET /api/messages/:other_user_id
func (h *MessageHandler) GetMessageList(c *gin.Context) {
	requesterId := c.GetString("user_id")
	otherUserId := c.Param("other_user_id")
	if otherUserId == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "对端用户标识缺失"))
		return
	}
	data, err := h.messageSvc.GetMessageList(requesterId, otherUserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SendMessage 发送私信（REST 路径）
// POST /api/messages
// 发送者身份取自认证中间件，不信任请求体
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	senderId := c.GetString("user_id")
	data, err := h.deliverySvc.Send(senderId, req.ReceiverId, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}
