// Package timeline 实现私信客户端的对账层
// 一个打开的会话有两个消息来源：打开时的一次性 REST 历史拉取，
// 和实时连接推送的广播事件。两者到达顺序不保证，且同一条消息
// 可能到达两次（REST 响应 + 广播回显）。本包把它们合并成一条
// 有序、去重的可见序列：
// 1. 幂等插入：按消息 id 去重，重复到达直接丢弃
// 2. 排序键：(createdAt, id)，id 为雪花 ID，同秒消息仍有全序
// 3. 乐观发送：本地占位条目走 PENDING → CONFIRMED | FAILED 状态机，
//    由客户端自己的关联标识（而非服务端 id）匹配
package timeline

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Message 客户端视角的一条私信
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	CreatedAt  time.Time
}

// EntryState 时间线条目状态
type EntryState int8

const (
	// StateConfirmed 服务端已确认的消息
	StateConfirmed EntryState = iota
	// StatePending 乐观占位条目，等待服务端确认
	StatePending
)

// Entry 时间线条目
type Entry struct {
	Message
	State EntryState
	// ClientTag 乐观占位条目的本地关联标识，确认后清空
	ClientTag string
}

// Timeline 单个打开会话的有序去重时间线
// 对账层是可见序列的唯一写者；内部仍持锁，防止多协程误用
type Timeline struct {
	mu      sync.Mutex
	selfId  string
	otherId string
	entries []Entry
	ids     map[string]struct{}
}

// New 创建指定会话 (selfId, otherId) 的时间线
func New(selfId, otherId string) *Timeline {
	return &Timeline{
		selfId:  selfId,
		otherId: otherId,
		ids:     make(map[string]struct{}),
	}
}

// Apply 幂等插入一条服务端消息（来源：历史拉取或广播）
// 相同 id 已存在时丢弃并返回 false
func (t *Timeline) Apply(msg Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.upsertLocked(msg)
}

// ApplyLive 处理一条实时广播事件
// 只接受对端匹配当前会话的事件，其余返回 false（调用方转交未读指示器）。
// 自己发出的消息的广播回显：若有内容匹配的悬挂占位条目，
// 就地确认该条目而不是追加第二份
func (t *Timeline) ApplyLive(msg Message) bool {
	if t.counterpart(msg) != t.otherId {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if msg.SenderID == t.selfId {
		for i := range t.entries {
			e := &t.entries[i]
			if e.State == StatePending && e.Content == msg.Content {
				t.removeLocked(i)
				t.upsertLocked(msg)
				return true
			}
		}
	}
	return t.upsertLocked(msg)
}

// AddPending 追加一个乐观占位条目
// 占位条目立即可见（感知延迟低），等待 Confirm/Fail 收束
func (t *Timeline) AddPending(clientTag, content string, now time.Time) Entry {
	entry := Entry{
		Message: Message{
			ID:         "local-" + clientTag,
			SenderID:   t.selfId,
			ReceiverID: t.otherId,
			Content:    content,
			CreatedAt:  now,
		},
		State:     StatePending,
		ClientTag: clientTag,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(entry)
	return entry
}

// Confirm 发送成功：用服务端确认的消息替换对应占位条目
// 占位条目已被广播回显提前确认时，这里退化为幂等插入
func (t *Timeline) Confirm(clientTag string, msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].State == StatePending && t.entries[i].ClientTag == clientTag {
			t.removeLocked(i)
			break
		}
	}
	t.upsertLocked(msg)
}

// Fail 发送失败：移除对应占位条目并返回它，供上层提示用户
// 找不到占位条目时返回 false
func (t *Timeline) Fail(clientTag string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].State == StatePending && t.entries[i].ClientTag == clientTag {
			entry := t.entries[i]
			t.removeLocked(i)
			return entry, true
		}
	}
	return Entry{}, false
}

// Entries 返回可见序列的快照
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := make([]Entry, len(t.entries))
	copy(snapshot, t.entries)
	return snapshot
}

// Len 返回可见序列长度
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// counterpart 取消息相对当前用户的对端
func (t *Timeline) counterpart(msg Message) string {
	if msg.SenderID == t.selfId {
		return msg.ReceiverID
	}
	return msg.SenderID
}

// upsertLocked 幂等插入，调用方必须已持锁
func (t *Timeline) upsertLocked(msg Message) bool {
	if _, ok := t.ids[msg.ID]; ok {
		return false
	}
	t.insertLocked(Entry{Message: msg, State: StateConfirmed})
	return true
}

// insertLocked 按 (createdAt, id) 有序插入，调用方必须已持锁
func (t *Timeline) insertLocked(entry Entry) {
	idx := sort.Search(len(t.entries), func(i int) bool {
		return entryLess(entry, t.entries[i])
	})
	t.entries = append(t.entries, Entry{})
	copy(t.entries[idx+1:], t.entries[idx:])
	t.entries[idx] = entry
	t.ids[entry.ID] = struct{}{}
}

// removeLocked 移除下标 i 处的条目，调用方必须已持锁
func (t *Timeline) removeLocked(i int) {
	delete(t.ids, t.entries[i].ID)
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
}

// entryLess 排序比较：createdAt 优先，相同时按 id 裁决
func entryLess(a, b Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return idLess(a.ID, b.ID)
}

// idLess 雪花 id 按数值比较，无法解析时退化为字符串比较
func idLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
