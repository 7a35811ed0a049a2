package message

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"linkup_dm_server/internal/dao/mysql/repository"
	myredis "linkup_dm_server/internal/dao/redis"
	"linkup_dm_server/internal/dto/respond"
	"linkup_dm_server/internal/model"
	"linkup_dm_server/pkg/constants"
	"linkup_dm_server/pkg/errorx"
)

// messageService 历史查询业务逻辑实现
// 通过构造函数注入 Repository 和 Cache 依赖
type messageService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewMessageService 构造函数，注入所有依赖
// cache 可为 nil（缓存是可降级依赖）
func NewMessageService(repos *repository.Repositories, cache myredis.AsyncCacheService) *messageService {
	return &messageService{
		repos: repos,
		cache: cache,
	}
}

// GetMessageList 获取聊天记录
// 先查缓存，未命中或解析失败时回源数据库并异步回填
func (m *messageService) GetMessageList(requesterId, otherUserId string) ([]respond.MessageRespond, error) {
	if requesterId == "" || otherUserId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户标识缺失")
	}

	// 确保 ID 顺序一致，保证缓存 Key 唯一
	userOneId, userTwoId := requesterId, otherUserId
	if userOneId > userTwoId {
		userOneId, userTwoId = userTwoId, userOneId
	}
	cacheKey := "message_list_" + userOneId + "_" + userTwoId

	if m.cache != nil {
		cached, err := m.cache.GetOrError(context.Background(), cacheKey)
		if err == nil {
			var rsp []respond.MessageRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err != nil {
				zap.L().Error("json unmarshal cache error", zap.Error(err))
				// 缓存条目已损坏：删掉它再回源数据库，避免每次请求都撞上坏数据
				if err := m.cache.Delete(context.Background(), cacheKey); err != nil {
					zap.L().Error("redis del key error", zap.Error(err))
				}
			} else {
				return rsp, nil
			}
		} else if errorx.GetCode(err) != errorx.CodeNotFound {
			zap.L().Error("redis get key error", zap.Error(err))
		}
	}

	// 缓存未命中或出错，查数据库
	messageList, err := m.repos.Message.FindBetween(requesterId, otherUserId)
	if err != nil {
		zap.L().Error("find messages error",
			zap.String("requester_id", requesterId),
			zap.String("other_user_id", otherUserId),
			zap.Error(err),
		)
		return nil, err
	}

	rspList := make([]respond.MessageRespond, 0, len(messageList))
	for _, msg := range messageList {
		rspList = append(rspList, respond.NewMessageRespond(msg))
	}

	// 异步更新缓存
	if m.cache != nil {
		m.cache.SubmitTask(func() {
			raw, err := json.Marshal(rspList)
			if err != nil {
				zap.L().Error("json marshal error", zap.Error(err))
				return
			}
			if err := m.cache.Set(context.Background(), cacheKey, string(raw), time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
				zap.L().Error("redis set key error", zap.Error(err))
			}
		})
	}

	return rspList, nil
}

// GetConversationList 获取会话列表
// 扫描请求者参与的全部消息，按对端分组取最新一条，再补全对端用户摘要。
// 全量扫描在当前规模可接受，消息量增长后需改为索引化查询
func (m *messageService) GetConversationList(requesterId string) ([]respond.ConversationRespond, error) {
	if requesterId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户标识缺失")
	}

	messageList, err := m.repos.Message.FindByUser(requesterId)
	if err != nil {
		zap.L().Error("find user messages error",
			zap.String("requester_id", requesterId),
			zap.Error(err),
		)
		return nil, err
	}

	// 按对端分组，保留最新一条
	// FindByUser 返回升序序列，后出现的覆盖先出现的即可
	latestByPeer := make(map[string]model.Message)
	for _, msg := range messageList {
		peerId := msg.ReceiveId
		if msg.ReceiveId == requesterId {
			peerId = msg.SendId
		}
		latestByPeer[peerId] = msg
	}

	rspList := make([]respond.ConversationRespond, 0, len(latestByPeer))
	for peerId, lastMessage := range latestByPeer {
		peer, err := m.repos.User.FindByUuid(peerId)
		if err != nil {
			if errorx.GetCode(err) == errorx.CodeNotFound {
				// 对端用户记录缺失，跳过该会话而不是整体报错
				zap.L().Warn("conversation peer missing, entry omitted",
					zap.String("requester_id", requesterId),
					zap.String("peer_id", peerId),
				)
				continue
			}
			zap.L().Error("find peer error", zap.String("peer_id", peerId), zap.Error(err))
			return nil, err
		}
		rspList = append(rspList, respond.ConversationRespond{
			User: respond.UserSummaryRespond{
				Id:       peer.Uuid,
				Nickname: peer.Nickname,
				Avatar:   peer.Avatar,
			},
			LastMessage: respond.NewMessageRespond(lastMessage),
		})
	}

	// 按最新消息时间降序，时间相同按雪花 id 降序
	sort.Slice(rspList, func(i, j int) bool {
		a, b := rspList[i].LastMessage, rspList[j].LastMessage
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return idGreater(a.Id, b.Id)
	})

	return rspList, nil
}

// idGreater 雪花 id 按数值比较
// 字符串比较会把位数不同的十进制 id 排错，无法解析时才退化为字符串比较
func idGreater(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}
