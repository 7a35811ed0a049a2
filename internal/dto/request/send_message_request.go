package request

// SendMessageRequest 发送私信请求 (REST)
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
type SendMessageRequest struct {
	ReceiverId string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	// ClientTag 客户端本地关联标识，服务端原样回传
	// 客户端用它把服务端确认与乐观占位条目对应起来
	ClientTag string `json:"client_tag"`
}
