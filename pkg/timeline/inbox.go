package timeline

import (
	"sort"
	"sync"
)

// Conversation 未读指示器里的一个会话摘要
type Conversation struct {
	PeerID      string
	Unread      int
	LastMessage Message
}

// Inbox 会话列表的未读指示器
// 时间线只对账当前打开的会话；落在其他会话上的实时事件
// 由这里累计未读数并刷新最近一条消息
type Inbox struct {
	mu     sync.Mutex
	selfId string
	// open 当前打开会话的对端，该会话不累计未读
	open  string
	convs map[string]*Conversation
}

// NewInbox 创建当前用户的未读指示器
func NewInbox(selfId string) *Inbox {
	return &Inbox{
		selfId: selfId,
		convs:  make(map[string]*Conversation),
	}
}

// Observe 记录一条消息（历史或实时均可）
// 更新对应会话的最近一条消息；对端发来且会话未打开时未读数加一
func (i *Inbox) Observe(msg Message) {
	peer := msg.SenderID
	if msg.SenderID == i.selfId {
		peer = msg.ReceiverID
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	conv, ok := i.convs[peer]
	if !ok {
		conv = &Conversation{PeerID: peer}
		i.convs[peer] = conv
	}
	if conv.LastMessage.ID == "" || entryLess(Entry{Message: conv.LastMessage}, Entry{Message: msg}) {
		conv.LastMessage = msg
	}
	if msg.SenderID != i.selfId && peer != i.open {
		conv.Unread++
	}
}

// Open 打开与 peerId 的会话：清零其未读数，后续该会话不再累计
func (i *Inbox) Open(peerId string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.open = peerId
	if conv, ok := i.convs[peerId]; ok {
		conv.Unread = 0
	}
}

// Close 关闭当前打开的会话
func (i *Inbox) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.open = ""
}

// List 返回会话摘要，按最近一条消息时间降序
func (i *Inbox) List() []Conversation {
	i.mu.Lock()
	defer i.mu.Unlock()

	list := make([]Conversation, 0, len(i.convs))
	for _, conv := range i.convs {
		list = append(list, *conv)
	}
	sort.Slice(list, func(a, b int) bool {
		return entryLess(Entry{Message: list[b].LastMessage}, Entry{Message: list[a].LastMessage})
	})
	return list
}
