package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// SenderRole 訊息發送者身份
type SenderRole string

const (
	//SenderSeller 賣家(開播方)
	SenderSeller SenderRole = "seller"
	//SenderViewer 觀眾
	SenderViewer SenderRole = "viewer"
)

const (
	// MaxMessageRunes 單則訊息字數上限
	MaxMessageRunes = 500

	// SellerDisplayName 賣家訊息固定顯示名稱，不走名稱查詢
	SellerDisplayName = "Seller"
)

// 訊息驗證錯誤，發送前本地先擋
var (
	// ErrEmptyMessage message is empty after trim
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong message over max runes
	ErrMessageTooLong = errors.New("message too long")
)

// ChatMessage 表示一則直播聊天訊息，建立後不可變
type ChatMessage struct {
	ID         string     `bson:"_id" json:"id"` // 可以用 UUID
	ShowID     string     `bson:"show_id" json:"show_id"`
	SenderID   string     `bson:"sender_id" json:"sender_id"`
	SenderRole SenderRole `bson:"sender_role" json:"sender_role"`
	Body       string     `bson:"body" json:"body"`
	CreatedAt  int64      `bson:"created_at" json:"created_at"` // 毫秒
}

// Before 排序依據，created_at 相同時比 id 保證全序
func (m ChatMessage) Before(other ChatMessage) bool {
	if m.CreatedAt != other.CreatedAt {
		return m.CreatedAt < other.CreatedAt
	}
	return m.ID < other.ID
}

// ChatEntry 對外輸出的訊息，多帶顯示名稱
type ChatEntry struct {
	ChatMessage
	DisplayName string `json:"display_name"`
}

// NormalizeBody 修剪並驗證訊息內容
func NormalizeBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageRunes {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}

// FallbackDisplayName 名稱還沒查到前的預設顯示名稱
func FallbackDisplayName(senderID string) string {
	short := senderID
	if utf8.RuneCountInString(short) > 8 {
		short = string([]rune(short)[:8])
	}
	return "viewer-" + short
}
