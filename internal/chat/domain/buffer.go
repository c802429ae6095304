package domain

import "sort"

// MessageBuffer 單一場次的近期訊息視窗，
// 依 created_at 升冪排列，超出容量丟最舊
type MessageBuffer struct {
	capacity int
	items    []ChatMessage
}

// NewMessageBuffer create a MessageBuffer
func NewMessageBuffer(capacity int) *MessageBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &MessageBuffer{
		capacity: capacity,
		items:    make([]ChatMessage, 0, capacity),
	}
}

// Insert 依時間序插入，到達順序不影響讀取順序，滿了丟最舊
func (b *MessageBuffer) Insert(msg ChatMessage) {
	i := sort.Search(len(b.items), func(i int) bool {
		return msg.Before(b.items[i])
	})
	b.items = append(b.items, ChatMessage{})
	copy(b.items[i+1:], b.items[i:])
	b.items[i] = msg

	if len(b.items) > b.capacity {
		over := len(b.items) - b.capacity
		copy(b.items, b.items[over:])
		b.items = b.items[:b.capacity]
	}
}

// Len current buffer size
func (b *MessageBuffer) Len() int {
	return len(b.items)
}

// Capacity buffer max size
func (b *MessageBuffer) Capacity() int {
	return b.capacity
}

// Messages 回傳排序後的快照
func (b *MessageBuffer) Messages() []ChatMessage {
	out := make([]ChatMessage, len(b.items))
	copy(out, b.items)
	return out
}
