// Package chat 实现私信系统的实时核心
// conn.go
// 核心职责：单条 WebSocket 连接的读写协程与事件分发
// 1. 读协程：解析事件信封，join 事件冗余校验，private_message 事件交给协调器
// 2. 写协程：从发送缓冲区取事件写给前端
// 3. 连接断开时从 Hub 注销，之后不再有事件投递到该连接
package chat

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"linkup_dm_server/internal/dto/request"
	"linkup_dm_server/internal/dto/respond"
	"linkup_dm_server/pkg/constants"
	"linkup_dm_server/pkg/errorx"
)

// UserConn 一条已认证的 WebSocket 连接
// 实现 Session 接口；身份固定为握手凭证中的用户，连接存续期间不可变
type UserConn struct {
	conn        *websocket.Conn
	userId      string
	hub         *Hub
	coordinator *Coordinator

	sendBack chan []byte // 推送给前端的事件缓冲区

	mu     sync.Mutex
	closed bool
}

// newUserConn 创建连接对象
func newUserConn(conn *websocket.Conn, userId string, hub *Hub, coordinator *Coordinator) *UserConn {
	return &UserConn{
		conn:        conn,
		userId:      userId,
		hub:         hub,
		coordinator: coordinator,
		sendBack:    make(chan []byte, constants.CHANNEL_SIZE),
	}
}

// UserID 实现 Session 接口
func (c *UserConn) UserID() string {
	return c.userId
}

// Deliver 实现 Session 接口：非阻塞投递
// 缓冲区满时返回 false，事件按尽力而为约定丢弃
func (c *UserConn) Deliver(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.sendBack <- payload:
		return true
	default:
		return false
	}
}

// Close 实现 Session 接口：幂等关闭
func (c *UserConn) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.sendBack)
	}
	c.mu.Unlock()
	_ = c.conn.Close()
}

// readLoop 读取 WebSocket 消息并分发事件
// 连接断开（显式关闭或超时）时从 Hub 注销并释放连接
func (c *UserConn) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws connection closed", zap.String("user_id", c.userId), zap.Error(err))
			return
		}
		c.handleEvent(payload)
	}
}

// writeLoop 从发送缓冲区取事件写给前端
func (c *UserConn) writeLoop() {
	for payload := range c.sendBack {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			zap.L().Error("ws write failed", zap.String("user_id", c.userId), zap.Error(err))
			return
		}
	}
}

// handleEvent 分发单个客户端事件
func (c *UserConn) handleEvent(payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		zap.L().Warn("ws event unmarshal failed", zap.String("user_id", c.userId), zap.Error(err))
		return
	}

	switch ev.Event {
	case EventJoin:
		// 房间已在握手时按凭证加入，客户端声明的其它身份一律忽略
		var req request.JoinRequest
		_ = json.Unmarshal(ev.Data, &req)
		if req.UserId != "" && req.UserId != c.userId {
			zap.L().Warn("join ignored: claimed id differs from credential",
				zap.String("claimed", req.UserId),
				zap.String("credential", c.userId),
			)
		}

	case EventPrivateMessage:
		var req request.PrivateMessageRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			c.sendFailed("", "事件载荷格式错误")
			return
		}
		// 发送者身份取自凭证，不信任载荷
		rsp, err := c.coordinator.Send(c.userId, req.ReceiverId, req.Content)
		if err != nil {
			// 显式失败回执，客户端据此回滚乐观占位条目
			c.sendFailed(req.ClientTag, errorMessage(err))
			return
		}
		c.sendAck(req.ClientTag, rsp)

	default:
		zap.L().Warn("unknown ws event", zap.String("event", ev.Event), zap.String("user_id", c.userId))
	}
}

// sendAck 向当前连接回发送确认回执
// 广播回显走房间，回执只发给发起连接，二者由客户端按 id 去重
func (c *UserConn) sendAck(clientTag string, rsp *respond.MessageRespond) {
	payload, err := marshalEvent(EventSendAck, SendAckData{
		ClientTag: clientTag,
		Message:   *rsp,
	})
	if err != nil {
		zap.L().Error("序列化确认回执失败", zap.Error(err))
		return
	}
	c.Deliver(payload)
}

// sendFailed 向当前连接回发送失败回执
func (c *UserConn) sendFailed(clientTag, message string) {
	payload, err := marshalEvent(EventSendFailed, SendFailedData{
		ClientTag: clientTag,
		Message:   message,
	})
	if err != nil {
		zap.L().Error("序列化失败回执失败", zap.Error(err))
		return
	}
	c.Deliver(payload)
}

// errorMessage 提取面向用户的错误消息
func errorMessage(err error) string {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Msg
	}
	return errorx.ErrServerBusy.Msg
}
