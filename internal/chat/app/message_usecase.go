package app

import (
	"context"
	"fmt"
	"time"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	errprocess "live_shopping_service/pkg/err"
	"live_shopping_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 包一層方便測試替換
var (
	nowFunc      = time.Now
	newMessageID = func() string { return uuid.New().String() }
)

// SendMessageUseCase 發言：驗證、檢查場次狀態、落庫、推事件流與分析事件
type SendMessageUseCase struct {
	msgRepo  repository.MessageRepository
	showRepo repository.ShowRepository
	feed     repository.MessageFeed
	events   repository.ChatEventProducer
}

// NewSendMessageUseCase create a SendMessageUseCase
func NewSendMessageUseCase(
	msgRepo repository.MessageRepository,
	showRepo repository.ShowRepository,
	feed repository.MessageFeed,
	events repository.ChatEventProducer,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		msgRepo:  msgRepo,
		showRepo: showRepo,
		feed:     feed,
		events:   events,
	}
}

// Execute 寫入訊息並回傳 server 確認的那一筆
func (uc *SendMessageUseCase) Execute(ctx context.Context, showID, senderID string, role domain.SenderRole, body string) (domain.ChatMessage, error) {
	var zero domain.ChatMessage

	normalized, err := domain.NormalizeBody(body)
	if err != nil {
		return zero, err
	}

	// 1. 場次要在可發言狀態，這條規則的持有者是寫入端
	status, err := uc.showRepo.FetchStatus(ctx, showID)
	if err != nil {
		return zero, err
	}
	if !status.State().Available {
		return zero, domain.ErrChatUnavailable
	}

	// 2. id 跟時間都由 server 決定，client 給的不可信
	msg := domain.ChatMessage{
		ID:         newMessageID(),
		ShowID:     showID,
		SenderID:   senderID,
		SenderRole: role,
		Body:       normalized,
		CreatedAt:  nowFunc().UnixMilli(),
	}
	if err := uc.msgRepo.Insert(ctx, &msg); err != nil {
		errMsg := fmt.Sprintf("showID[%s] 訊息寫入失敗 : %v", showID, err)
		return zero, errprocess.Set(errMsg)
	}

	// 3. 推播失敗不回滾，其他觀眾靠輪詢補到這筆
	if uc.feed != nil {
		if err := uc.feed.Publish(ctx, msg); err != nil {
			logger.Log.Errorf("feed publish failed:", err, zap.String("showID", showID))
		}
	}

	// 4. 分析事件 fire-and-forget
	if uc.events != nil {
		if err := uc.events.MessageCreated(ctx, msg); err != nil {
			logger.Log.Errorf("emit message_created failed:", err, zap.String("showID", showID))
		}
	}

	return msg, nil
}
