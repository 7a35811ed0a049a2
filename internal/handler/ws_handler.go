// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"linkup_dm_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler 实时连接入口
// 凭证验证与房间加入都在网关内部完成
type WsHandler struct {
	gateway *chat.Gateway
}

// NewWsHandler 创建 WebSocket Handler
func NewWsHandler(gateway *chat.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect 建立实时连接（升级 HTTP 连接为 WebSocket）
// GET /api/ws?token=xxx
// 功能:
//   - 升级前按 Bearer 凭证认证
//   - 将连接注册进凭证所属用户的房间
//   - 开始监听消息收发
func (h *WsHandler) Connect(c *gin.Context) {
	h.gateway.HandleConnection(c)
}
