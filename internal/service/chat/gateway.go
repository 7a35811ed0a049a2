// Package chat 实现私信系统的实时核心
// gateway.go
// 核心职责：WebSocket 握手与连接生命周期入口
// 1. 升级前验证 Bearer 凭证（query token 或 Authorization 头）
// 2. 房间 id 只从已验证的凭证声明派生，客户端无法加入他人房间
// 3. 认证失败的连接立即被拒绝，不会进入任何房间、触发任何投递
package chat

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"linkup_dm_server/pkg/util/jwt"
)

// Gateway 实时网关
// Hub 和 Coordinator 均通过构造函数注入
type Gateway struct {
	hub         *Hub
	coordinator *Coordinator
	upgrader    websocket.Upgrader
}

// NewGateway 创建实时网关
func NewGateway(hub *Hub, coordinator *Coordinator) *Gateway {
	return &Gateway{
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			// 前端与后端不同源，放行跨域握手
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection 处理实时连接握手
// 请求示例: ws://host:port/api/ws?token=xxx
// 浏览器 WebSocket 无法自定义请求头，因此优先从 query 取凭证，
// 非浏览器客户端也可使用 Authorization 头
func (g *Gateway) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "缺少连接凭证",
		})
		return
	}

	// 升级前完成凭证验证，非法连接根本不会建立
	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != "access_token" {
		zap.L().Warn("ws handshake rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "凭证无效或已过期",
		})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := newUserConn(conn, claims.UserID, g.hub, g.coordinator)
	// 按凭证身份加入自己的房间（即自动 join）
	g.hub.Register(client)
	go client.readLoop()
	go client.writeLoop()
	zap.L().Info("ws连接成功", zap.String("user_id", claims.UserID))
}
