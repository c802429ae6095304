package domain

// 分析事件類型
const (
	// EventMessageCreated 新訊息建立
	EventMessageCreated = "message_created"
	// EventMessageReported 訊息被檢舉
	EventMessageReported = "message_reported"
)

// ChatEvent 發進 kafka 的分析事件，營運報表用
type ChatEvent struct {
	Type       string     `json:"type"`
	ShowID     string     `json:"show_id"`
	MessageID  string     `json:"message_id"`
	SenderID   string     `json:"sender_id"`
	SenderRole SenderRole `json:"sender_role"`
	CreatedAt  int64      `json:"created_at"` // 毫秒
}
