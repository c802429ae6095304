package domain

import "errors"

// 場次生命週期相關錯誤
var (
	// ErrShowNotFound show not exist
	ErrShowNotFound = errors.New("show not found")
	// ErrChatUnavailable show not in chat-eligible state
	ErrChatUnavailable = errors.New("chat is not available")
)

// Show 直播場次，檔期由賣家後台服務維護，聊天服務只讀生命週期
type Show struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	SellerID  string `gorm:"size:64;index" json:"seller_id"`
	Title     string `gorm:"size:256" json:"title"`
	IsLive    bool   `gorm:"index" json:"is_live"`
	IsEnding  bool   `json:"is_ending"` // 收尾中，停止接單與發言
	StartedAt int64  `json:"started_at"`
	EndedAt   int64  `json:"ended_at"`
}

// ShowStatus 聊天可用性判斷所需的生命週期欄位
type ShowStatus struct {
	IsLive   bool `json:"is_live"`
	IsEnding bool `json:"is_ending"`
}

// AvailabilityState 聊天室對外狀態
type AvailabilityState struct {
	Available bool `json:"available"`
	Ended     bool `json:"ended"`
}

// State 由生命週期推導聊天室狀態，
// 開播且未收尾才能發言，下播即為終態
func (s ShowStatus) State() AvailabilityState {
	return AvailabilityState{
		Available: s.IsLive && !s.IsEnding,
		Ended:     !s.IsLive,
	}
}

// Status show 轉生命週期欄位
func (s *Show) Status() ShowStatus {
	return ShowStatus{IsLive: s.IsLive, IsEnding: s.IsEnding}
}
