// Package chat 实现私信系统的实时核心
// hub.go
// 核心职责：用户房间注册表
// 1. 维护 用户uuid → 活跃连接集合 的映射（一个用户可同时有多个设备/标签页在线）
// 2. 提供按用户广播的投递原语 PublishToUser
// 3. 显式注入的实例对象，不做包级单例，方便多实例隔离测试
package chat

import (
	"sync"

	"go.uber.org/zap"
)

// Session 一条已通过认证并加入房间的实时连接
// Hub 只依赖该最小接口，便于测试替身
type Session interface {
	// UserID 连接绑定的用户身份（来自已验证的凭证）
	UserID() string
	// Deliver 非阻塞投递，缓冲区满返回 false
	Deliver(payload []byte) bool
	// Close 关闭连接并释放资源
	Close()
}

// Hub 房间注册表
// 所有对 rooms 的读写都在锁内完成，投递在锁外进行
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[Session]struct{}
	closed bool
}

// NewHub 创建房间注册表实例
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Session]struct{}),
	}
}

// Register 将连接加入其用户房间
// Hub 已关闭时直接关闭连接
func (h *Hub) Register(s Session) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.Close()
		return
	}
	room, ok := h.rooms[s.UserID()]
	if !ok {
		room = make(map[Session]struct{})
		h.rooms[s.UserID()] = room
	}
	room[s] = struct{}{}
	size := len(room)
	h.mu.Unlock()
	zap.L().Info("session joined room", zap.String("user_id", s.UserID()), zap.Int("sessions", size))
}

// Unregister 将连接从其用户房间移除，空房间随之删除
// 对未注册的连接调用是无害的
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	if room, ok := h.rooms[s.UserID()]; ok {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, s.UserID())
		}
	}
	h.mu.Unlock()
	zap.L().Info("session left room", zap.String("user_id", s.UserID()))
}

// PublishToUser 将事件广播到指定用户房间的全部连接
// 无人在线时事件直接丢弃（客户端加载时总会从 REST 历史对账）
// 返回成功投递的连接数
func (h *Hub) PublishToUser(userId string, payload []byte) int {
	h.mu.RLock()
	room := h.rooms[userId]
	sessions := make([]Session, 0, len(room))
	for s := range room {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range sessions {
		if s.Deliver(payload) {
			delivered++
		} else {
			// 连接缓冲区满，按尽力而为约定丢弃
			zap.L().Warn("session buffer full, event dropped", zap.String("user_id", userId))
		}
	}
	return delivered
}

// SessionCount 返回指定用户当前的在线连接数
func (h *Hub) SessionCount(userId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userId])
}

// Close 关闭注册表并断开所有连接
// 之后的 Register 调用会直接关闭新连接
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []Session
	for _, room := range h.rooms {
		for s := range room {
			all = append(all, s)
		}
	}
	h.rooms = make(map[string]map[Session]struct{})
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
