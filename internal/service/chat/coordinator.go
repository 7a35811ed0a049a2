// Package chat 实现私信系统的实时核心
// coordinator.go
// 核心职责：投递协调器
// REST 发送接口和 WebSocket private_message 事件是两个很薄的传输适配层，
// 校验、持久化、广播全部收敛到这里的 Send，避免双路径逻辑分叉
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"linkup_dm_server/internal/dao/mysql/repository"
	myredis "linkup_dm_server/internal/dao/redis"
	"linkup_dm_server/internal/dto/respond"
	"linkup_dm_server/internal/model"
	"linkup_dm_server/pkg/constants"
	"linkup_dm_server/pkg/errorx"
	"linkup_dm_server/pkg/util/snowflake"
)

// Publisher 协调器对实时层的最小依赖
// Hub 实现了该接口
type Publisher interface {
	PublishToUser(userId string, payload []byte) int
}

// Coordinator 投递协调器
// 消息发送的三步：校验 → 持久化 → 双端广播
// 广播是尽力而为的：任一端投递失败既不回滚持久化，也不影响另一端
type Coordinator struct {
	messageRepo repository.MessageRepository
	publisher   Publisher
	cache       myredis.AsyncCacheService
}

// NewCoordinator 创建投递协调器
// cache 可为 nil（缓存是可降级依赖）
func NewCoordinator(messageRepo repository.MessageRepository, publisher Publisher, cache myredis.AsyncCacheService) *Coordinator {
	return &Coordinator{
		messageRepo: messageRepo,
		publisher:   publisher,
		cache:       cache,
	}
}

// Send 发送一条私信
// 校验失败返回 CodeInvalidParam 且不产生任何持久化；
// 持久化失败返回 CodePersistence 且不产生任何广播；
// 持久化成功后先广播给发送者房间再广播给接收者房间，
// 广播顺序与持久化顺序一致（发布严格发生在写入完成之后）
func (co *Coordinator) Send(senderId, receiverId, content string) (*respond.MessageRespond, error) {
	if senderId == "" || receiverId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "发送者或接收者缺失")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	if senderId == receiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发送消息")
	}

	message := model.Message{
		Uuid:      snowflake.GenerateID(),
		SendId:    senderId,
		ReceiveId: receiverId,
		Content:   content,
	}
	if err := co.messageRepo.Create(&message); err != nil {
		zap.L().Error("创建消息失败",
			zap.String("sender_id", senderId),
			zap.String("receiver_id", receiverId),
			zap.Error(err),
		)
		return nil, err
	}

	rsp := respond.NewMessageRespond(message)

	payload, err := marshalEvent(EventPrivateMessage, rsp)
	if err != nil {
		// 广播失败不影响已完成的持久化
		zap.L().Error("序列化广播事件失败", zap.Error(err))
	} else {
		co.publisher.PublishToUser(senderId, payload)
		co.publisher.PublishToUser(receiverId, payload)
	}

	// 异步把新消息追加到会话缓存，保持缓存与消息表一致
	if co.cache != nil {
		co.cache.SubmitTask(func() {
			userOneId, userTwoId := senderId, receiverId
			if userOneId > userTwoId {
				userOneId, userTwoId = userTwoId, userOneId
			}
			key := "message_list_" + userOneId + "_" + userTwoId

			cached, err := co.cache.GetOrError(context.Background(), key)
			if err != nil {
				// 缓存未命中则不回填，下次历史查询会回源数据库重建
				return
			}
			var list []respond.MessageRespond
			if err := json.Unmarshal([]byte(cached), &list); err != nil {
				// 缓存条目已损坏，删掉让下次历史查询回源重建
				_ = co.cache.Delete(context.Background(), key)
				return
			}
			list = append(list, rsp)
			if raw, err := json.Marshal(list); err == nil {
				_ = co.cache.Set(context.Background(), key, string(raw), time.Minute*constants.REDIS_TIMEOUT)
			}
		})
	}

	return &rsp, nil
}
