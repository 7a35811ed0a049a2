package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkup_dm_server/internal/dto/respond"
	"linkup_dm_server/internal/model"
	"linkup_dm_server/pkg/errorx"
)

// fakeMessageRepo 协调器测试用的消息仓储替身
type fakeMessageRepo struct {
	created   []model.Message
	createErr error
}

func (r *fakeMessageRepo) Create(message *model.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *message)
	return nil
}

func (r *fakeMessageRepo) FindBetween(userOneId, userTwoId string) ([]model.Message, error) {
	return nil, nil
}

func (r *fakeMessageRepo) FindByUser(userId string) ([]model.Message, error) {
	return nil, nil
}

// fakePublisher 记录每个房间收到的广播
type fakePublisher struct {
	published map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[string][][]byte)}
}

func (p *fakePublisher) PublishToUser(userId string, payload []byte) int {
	p.published[userId] = append(p.published[userId], payload)
	return 1
}

func TestCoordinatorSend(t *testing.T) {
	repo := &fakeMessageRepo{}
	pub := newFakePublisher()
	co := NewCoordinator(repo, pub, nil)

	rsp, err := co.Send("u1", "u2", "hello")
	require.NoError(t, err)
	require.NotNil(t, rsp)
	require.Equal(t, "u1", rsp.SenderId)
	require.Equal(t, "u2", rsp.ReceiverId)
	require.Equal(t, "hello", rsp.Content)
	require.NotEmpty(t, rsp.Id)

	// 持久化一次
	require.Len(t, repo.created, 1)
	require.Equal(t, "hello", repo.created[0].Content)

	// 发送者和接收者各广播一次，且是同一个信封
	require.Len(t, pub.published["u1"], 1)
	require.Len(t, pub.published["u2"], 1)
	require.Equal(t, pub.published["u1"][0], pub.published["u2"][0])

	var envelope Event
	require.NoError(t, json.Unmarshal(pub.published["u1"][0], &envelope))
	require.Equal(t, EventPrivateMessage, envelope.Event)

	var payload respond.MessageRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	require.Equal(t, rsp.Id, payload.Id)
}

func TestCoordinatorSendRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		receiver string
		content  string
	}{
		{"发送者缺失", "", "u2", "hello"},
		{"接收者缺失", "u1", "", "hello"},
		{"内容为空", "u1", "u2", ""},
		{"内容仅空白", "u1", "u2", "   \t\n"},
		{"发给自己", "u1", "u1", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMessageRepo{}
			pub := newFakePublisher()
			co := NewCoordinator(repo, pub, nil)

			_, err := co.Send(tt.sender, tt.receiver, tt.content)
			require.Error(t, err)
			require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
			// 校验失败不产生持久化，也不产生广播
			require.Empty(t, repo.created)
			require.Empty(t, pub.published)
		})
	}
}

// fakeCache 内存版异步缓存，任务同步执行便于断言
type fakeCache struct {
	store   map[string]string
	sets    map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		store: make(map[string]string),
		sets:  make(map[string]string),
	}
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.store[key] = value
	c.sets[key] = value
	return nil
}

func (c *fakeCache) GetOrError(ctx context.Context, key string) (string, error) {
	value, ok := c.store[key]
	if !ok {
		return "", errorx.Newf(errorx.CodeNotFound, "key %s not found", key)
	}
	return value, nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) SubmitTask(action func()) {
	action()
}

func TestCoordinatorSendAppendsToCachedList(t *testing.T) {
	existing := []respond.MessageRespond{
		{Id: "100", SenderId: "u2", ReceiverId: "u1", Content: "earlier", CreatedAt: "2026-09-01 12:00:01"},
	}
	raw, err := json.Marshal(existing)
	require.NoError(t, err)

	cache := newFakeCache()
	cache.store["message_list_u1_u2"] = string(raw)
	co := NewCoordinator(&fakeMessageRepo{}, newFakePublisher(), cache)

	rsp, err := co.Send("u2", "u1", "hello")
	require.NoError(t, err)

	// 新消息追加到已有的会话缓存末尾
	var updated []respond.MessageRespond
	require.NoError(t, json.Unmarshal([]byte(cache.sets["message_list_u1_u2"]), &updated))
	require.Len(t, updated, 2)
	require.Equal(t, "earlier", updated[0].Content)
	require.Equal(t, rsp.Id, updated[1].Id)
}

func TestCoordinatorSendSkipsColdCache(t *testing.T) {
	cache := newFakeCache()
	co := NewCoordinator(&fakeMessageRepo{}, newFakePublisher(), cache)

	_, err := co.Send("u1", "u2", "hello")
	require.NoError(t, err)
	// 缓存未命中不回填，下次历史查询回源重建
	require.Empty(t, cache.sets)
	require.Empty(t, cache.deleted)
}

func TestCoordinatorSendEvictsCorruptCache(t *testing.T) {
	cache := newFakeCache()
	cache.store["message_list_u1_u2"] = "{not valid json"
	co := NewCoordinator(&fakeMessageRepo{}, newFakePublisher(), cache)

	_, err := co.Send("u1", "u2", "hello")
	require.NoError(t, err)
	require.Contains(t, cache.deleted, "message_list_u1_u2")
	require.Empty(t, cache.sets)
}

func TestCoordinatorSendPersistFailureSkipsBroadcast(t *testing.T) {
	repo := &fakeMessageRepo{
		createErr: errorx.New(errorx.CodePersistence, "数据库繁忙"),
	}
	pub := newFakePublisher()
	co := NewCoordinator(repo, pub, nil)

	_, err := co.Send("u1", "u2", "hello")
	require.Error(t, err)
	require.Equal(t, errorx.CodePersistence, errorx.GetCode(err))
	require.Empty(t, pub.published)
}
