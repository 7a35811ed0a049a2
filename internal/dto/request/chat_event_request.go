package request

// JoinRequest 实时连接的 join 事件载荷 (WebSocket)
// 房间归属以握手凭证为准，这里声明的 user_id 仅作冗余校验，
// 与凭证不符时被忽略
// 使用位置:
//   - internal/service/chat/conn.go: handleEvent
type JoinRequest struct {
	UserId string `json:"user_id"`
}

// PrivateMessageRequest 实时私信事件载荷 (WebSocket)
// 与 REST 发送路径共用同一个投递协调器
// 使用位置:
//   - internal/service/chat/conn.go: handleEvent
type PrivateMessageRequest struct {
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
	ClientTag  string `json:"client_tag"`
}
