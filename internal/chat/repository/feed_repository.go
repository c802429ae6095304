package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// feedChannel 每個場次一個 insert 事件 channel
func feedChannel(showID string) string {
	return fmt.Sprintf("chat:show:%s", showID)
}

// MessageFeed definition show insert-event feed。
// onStatus 只反映連線狀態，連上不代表事件真的會到
type MessageFeed interface {
	// Publish 將新訊息發佈到場次的事件流
	Publish(ctx context.Context, msg domain.ChatMessage) error
	// Subscribe 訂閱場次的事件流，回傳 unsubscribe。
	// 一個訂閱一定要對應一次 unsubscribe，不然 server 端會留下孤兒訂閱
	Subscribe(ctx context.Context, showID string, onInsert func(msg domain.ChatMessage), onStatus func(connected bool)) (func(), error)
}

// RedisMessageFeed definition redis pub/sub message feed
type RedisMessageFeed struct {
	client *redis.Client
}

// NewRedisMessageFeed create a RedisMessageFeed
func NewRedisMessageFeed(client *redis.Client) *RedisMessageFeed {
	return &RedisMessageFeed{client: client}
}

// Publish 將 message 序列化後發布到場次 channel
func (r *RedisMessageFeed) Publish(ctx context.Context, msg domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, feedChannel(msg.ShowID), data).Err()
}

// Subscribe 訂閱場次 channel，收到的每一列轉成單筆交給 onInsert
func (r *RedisMessageFeed) Subscribe(ctx context.Context, showID string, onInsert func(msg domain.ChatMessage), onStatus func(connected bool)) (func(), error) {
	channel := feedChannel(showID)
	sub := r.client.Subscribe(ctx, channel)

	// 等第一個訂閱確認，失敗直接回報讓呼叫端退回輪詢
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	onStatus(true)

	done := make(chan struct{})
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					onStatus(false)
					return
				}

				var msg domain.ChatMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					logger.Log.Errorf("feed payload unmarshal failed:", err)
					continue
				}
				onInsert(msg)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				onStatus(false)
				return
			case <-done:
				logger.Log.Info(fmt.Sprintf("%s , unsubscribe", channel))
				sub.Close()
				onStatus(false)
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() { close(done) })
	}
	return unsubscribe, nil
}
