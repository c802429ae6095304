package domain

import "errors"

// ModerationQueueName rabbitmq queue name for chat reports
const ModerationQueueName = "chat_moderation"

// ErrUnknownReportReason report reason not in list
var ErrUnknownReportReason = errors.New("unknown report reason")

// ReportReasons 開放的檢舉原因
var ReportReasons = []string{"spam", "abuse", "scam", "other"}

// MessageReport 觀眾檢舉訊息，丟進審核佇列由後台處理
type MessageReport struct {
	ID         string `json:"id"`
	ShowID     string `json:"show_id"`
	MessageID  string `json:"message_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	CreatedAt  int64  `json:"created_at"` // 毫秒
}
