package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func msgAt(id, sender, receiver, content string, sec int) Message {
	return Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Date(2026, 9, 1, 12, 0, sec, 0, time.UTC),
	}
}

func TestApplyIdempotent(t *testing.T) {
	tl := New("u1", "u2")

	m := msgAt("100", "u2", "u1", "hello", 1)
	require.True(t, tl.Apply(m))
	require.False(t, tl.Apply(m))
	require.Equal(t, 1, tl.Len())
}

func TestApplyOrdering(t *testing.T) {
	tl := New("u1", "u2")

	// 乱序到达：广播先到，历史后到
	require.True(t, tl.Apply(msgAt("300", "u1", "u2", "third", 3)))
	require.True(t, tl.Apply(msgAt("100", "u2", "u1", "first", 1)))
	require.True(t, tl.Apply(msgAt("200", "u1", "u2", "second", 2)))

	entries := tl.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "first", entries[0].Content)
	require.Equal(t, "second", entries[1].Content)
	require.Equal(t, "third", entries[2].Content)
}

func TestApplySameSecondOrderedById(t *testing.T) {
	tl := New("u1", "u2")

	// 同一秒内的两条消息按雪花 id 数值裁决
	require.True(t, tl.Apply(msgAt("10", "u2", "u1", "later id", 5)))
	require.True(t, tl.Apply(msgAt("9", "u1", "u2", "earlier id", 5)))

	entries := tl.Entries()
	require.Equal(t, "9", entries[0].ID)
	require.Equal(t, "10", entries[1].ID)
}

func TestPendingConfirm(t *testing.T) {
	tl := New("u1", "u2")

	entry := tl.AddPending("tag-1", "hi", time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.Equal(t, StatePending, entry.State)
	require.Equal(t, 1, tl.Len())

	tl.Confirm("tag-1", msgAt("100", "u1", "u2", "hi", 1))

	entries := tl.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "100", entries[0].ID)
	require.Equal(t, StateConfirmed, entries[0].State)
}

func TestPendingFail(t *testing.T) {
	tl := New("u1", "u2")

	tl.AddPending("tag-1", "hi", time.Now())
	failed, ok := tl.Fail("tag-1")
	require.True(t, ok)
	require.Equal(t, "hi", failed.Content)
	require.Equal(t, 0, tl.Len())

	_, ok = tl.Fail("tag-1")
	require.False(t, ok)
}

func TestLiveEchoConfirmsPending(t *testing.T) {
	tl := New("u1", "u2")

	// 广播回显先于确认应答到达
	tl.AddPending("tag-1", "hi", time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.True(t, tl.ApplyLive(msgAt("100", "u1", "u2", "hi", 1)))

	entries := tl.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "100", entries[0].ID)
	require.Equal(t, StateConfirmed, entries[0].State)

	// 迟到的确认应答只是幂等插入，不产生重复
	tl.Confirm("tag-1", msgAt("100", "u1", "u2", "hi", 1))
	require.Equal(t, 1, tl.Len())
}

func TestLiveRejectsOtherConversation(t *testing.T) {
	tl := New("u1", "u2")

	require.False(t, tl.ApplyLive(msgAt("100", "u3", "u1", "wrong room", 1)))
	require.Equal(t, 0, tl.Len())
}

func TestLiveFromPeerAppends(t *testing.T) {
	tl := New("u1", "u2")

	require.True(t, tl.ApplyLive(msgAt("100", "u2", "u1", "hello", 1)))
	require.False(t, tl.ApplyLive(msgAt("100", "u2", "u1", "hello", 1)))
	require.Equal(t, 1, tl.Len())
}

func TestInboxUnread(t *testing.T) {
	inbox := NewInbox("u1")

	inbox.Observe(msgAt("100", "u2", "u1", "one", 1))
	inbox.Observe(msgAt("200", "u2", "u1", "two", 2))
	inbox.Observe(msgAt("300", "u3", "u1", "hey", 3))
	// 自己发出的消息不计未读
	inbox.Observe(msgAt("400", "u1", "u2", "reply", 4))

	list := inbox.List()
	require.Len(t, list, 2)
	require.Equal(t, "u2", list[0].PeerID)
	require.Equal(t, "reply", list[0].LastMessage.Content)
	require.Equal(t, 2, list[0].Unread)
	require.Equal(t, "u3", list[1].PeerID)
	require.Equal(t, 1, list[1].Unread)
}

func TestInboxOpenClearsUnread(t *testing.T) {
	inbox := NewInbox("u1")

	inbox.Observe(msgAt("100", "u2", "u1", "one", 1))
	inbox.Open("u2")

	list := inbox.List()
	require.Equal(t, 0, list[0].Unread)

	// 打开期间对端继续来消息，不累计未读
	inbox.Observe(msgAt("200", "u2", "u1", "two", 2))
	require.Equal(t, 0, inbox.List()[0].Unread)

	inbox.Close()
	inbox.Observe(msgAt("300", "u2", "u1", "three", 3))
	require.Equal(t, 1, inbox.List()[0].Unread)
}
