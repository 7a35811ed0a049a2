package respond

// UserSummaryRespond 会话对端的用户摘要
type UserSummaryRespond struct {
	Id       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// ConversationRespond 会话列表条目
// 每个去重后的对端一条，携带该会话的最新一条消息
// 使用位置:
//   - internal/service/message/service.go: GetConversationList
type ConversationRespond struct {
	User        UserSummaryRespond `json:"user"`
	LastMessage MessageRespond     `json:"last_message"`
}
