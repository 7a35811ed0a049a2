// Package chat 实现私信系统的实时核心
// event.go
// 核心职责：WebSocket 事件信封与事件名定义
// 客户端与服务端之间的所有实时通信都使用 {event, data} 信封
package chat

import (
	"encoding/json"

	"linkup_dm_server/internal/dto/respond"
)

// 事件名定义
const (
	// EventJoin 客户端请求订阅自己的用户房间
	// 房间归属在握手时已按凭证确定，该事件仅作冗余声明
	EventJoin = "join"
	// EventPrivateMessage 双向：客户端发送私信 / 服务端推送私信
	EventPrivateMessage = "private_message"
	// EventSendAck 服务端对发送方的确认回执，携带客户端关联标识
	EventSendAck = "send_ack"
	// EventSendFailed 服务端对发送方的失败回执
	// 客户端据此回滚乐观占位条目
	EventSendFailed = "send_failed"
)

// Event WebSocket 事件信封
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendAckData 发送确认回执载荷
type SendAckData struct {
	ClientTag string                 `json:"client_tag"`
	Message   respond.MessageRespond `json:"message"`
}

// SendFailedData 发送失败回执载荷
type SendFailedData struct {
	ClientTag string `json:"client_tag"`
	Message   string `json:"message"`
}

// marshalEvent 将事件名和载荷编码为信封 JSON
func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Data: raw})
}
