package respond

import (
	"strconv"

	"linkup_dm_server/internal/model"
)

// MessageRespond 私信消息响应
// Id 为雪花 ID 的字符串形式，避免 JavaScript 精度丢失
// 使用位置:
//   - internal/service/message/service.go: GetMessageList / GetConversationList
//   - internal/service/chat/coordinator.go: Send
type MessageRespond struct {
	Id         string `json:"id"`
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// NewMessageRespond 从数据库模型构建响应体
func NewMessageRespond(message model.Message) MessageRespond {
	return MessageRespond{
		Id:         strconv.FormatInt(message.Uuid, 10),
		SenderId:   message.SendId,
		ReceiverId: message.ReceiveId,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
