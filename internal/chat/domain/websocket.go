package domain

// Action websocket request action
type Action string

const (
	// JoinShow websocket action join_show
	JoinShow Action = "join_show"
	// LeaveShow websocket action leave_show
	LeaveShow Action = "leave_show"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ReportMessage websocket action report_message
	ReportMessage Action = "report_message"

	// ChatHistory websocket action chat_history
	ChatHistory Action = "chat_history"

	// NotifyMessage server push new merged messages
	NotifyMessage Action = "notify_message"
	// NameResolved server push resolved display names
	NameResolved Action = "name_resolved"
	// ChatState server push availability state
	ChatState Action = "chat_state"
	// ChatIdle server push chat idle, 前端用來收掉動態效果
	ChatIdle Action = "chat_idle"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string `json:"action"`
	ShowID    string `json:"show_id"`
	Body      string `json:"body"`
	MessageID string `json:"message_id"`
	Reason    string `json:"reason"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
