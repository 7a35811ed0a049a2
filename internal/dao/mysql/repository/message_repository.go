package repository

import (
	"linkup_dm_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 持久化一条消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindBetween 按发送者和接收者查找消息（双向）
// created_at 相同时按雪花 uuid 裁决，保证全序
func (r *messageRepository) FindBetween(userOneId, userTwoId string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("(send_id = ? AND receive_id = ?) OR (send_id = ? AND receive_id = ?)",
		userOneId, userTwoId, userTwoId, userOneId).
		Order("created_at ASC, uuid ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, nil
}

// FindByUser 查找用户参与的全部消息
// 查询始终以请求者为锚点，不存在跨用户泄漏
func (r *messageRepository) FindByUser(userId string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("send_id = ? OR receive_id = ?", userId, userId).
		Order("created_at ASC, uuid ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户消息 user=%s", userId)
	}
	return messages, nil
}
