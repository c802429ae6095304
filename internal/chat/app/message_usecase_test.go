package app

import (
	"context"
	"strings"
	"testing"

	"live_shopping_service/internal/chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 測試 SendMessageUseCase.Execute 正常發言
func TestSendMessageUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	showID := uuid.New().String()
	senderID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockShowRepo := new(MockShowRepository)
	mockFeed := new(MockMessageFeed)
	mockEvents := new(MockChatEventProducer)

	// 模擬場次開播中
	mockShowRepo.On("FetchStatus", ctx, showID).Return(domain.ShowStatus{IsLive: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockFeed.On("Publish", ctx, mock.Anything).Return(nil)
	mockEvents.On("MessageCreated", ctx, mock.Anything).Return(nil)

	uc := NewSendMessageUseCase(mockMsgRepo, mockShowRepo, mockFeed, mockEvents)
	msg, err := uc.Execute(ctx, showID, senderID, domain.SenderViewer, "  這雙鞋還有 42 號嗎  ")

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, showID, msg.ShowID)
	assert.Equal(t, senderID, msg.SenderID)
	// 前後空白要被修掉
	assert.Equal(t, "這雙鞋還有 42 號嗎", msg.Body)
	assert.NotZero(t, msg.CreatedAt)

	mockShowRepo.AssertExpectations(t)
	mockMsgRepo.AssertExpectations(t)
	mockFeed.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

// 測試收尾中的場次不能發言
func TestSendMessageUseCase_EndingShow(t *testing.T) {
	ctx := context.Background()
	showID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockShowRepo := new(MockShowRepository)

	// 模擬場次收尾中
	mockShowRepo.On("FetchStatus", ctx, showID).Return(domain.ShowStatus{IsLive: true, IsEnding: true}, nil)

	uc := &SendMessageUseCase{msgRepo: mockMsgRepo, showRepo: mockShowRepo}
	_, err := uc.Execute(ctx, showID, "viewer-1", domain.SenderViewer, "hello")

	assert.ErrorIs(t, err, domain.ErrChatUnavailable)
	mockMsgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// 測試已下播的場次不能發言
func TestSendMessageUseCase_EndedShow(t *testing.T) {
	ctx := context.Background()
	showID := uuid.New().String()

	mockShowRepo := new(MockShowRepository)
	mockShowRepo.On("FetchStatus", ctx, showID).Return(domain.ShowStatus{}, nil)

	uc := &SendMessageUseCase{showRepo: mockShowRepo}
	_, err := uc.Execute(ctx, showID, "viewer-1", domain.SenderViewer, "hello")

	assert.ErrorIs(t, err, domain.ErrChatUnavailable)
}

// 測試空白內容擋在任何 I/O 之前
func TestSendMessageUseCase_EmptyBody(t *testing.T) {
	ctx := context.Background()

	mockShowRepo := new(MockShowRepository)

	uc := &SendMessageUseCase{showRepo: mockShowRepo}
	_, err := uc.Execute(ctx, "show-1", "viewer-1", domain.SenderViewer, "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	mockShowRepo.AssertNotCalled(t, "FetchStatus", mock.Anything, mock.Anything)
}

// 測試超長內容，長度照 rune 算
func TestSendMessageUseCase_BodyTooLong(t *testing.T) {
	ctx := context.Background()

	uc := &SendMessageUseCase{}
	_, err := uc.Execute(ctx, "show-1", "viewer-1", domain.SenderViewer, strings.Repeat("讚", domain.MaxMessageRunes+1))

	assert.ErrorIs(t, err, domain.ErrMessageTooLong)
}

// 測試推播失敗不影響發言結果，訊息已落庫靠輪詢補達
func TestSendMessageUseCase_FeedFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	showID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockShowRepo := new(MockShowRepository)
	mockFeed := new(MockMessageFeed)

	mockShowRepo.On("FetchStatus", ctx, showID).Return(domain.ShowStatus{IsLive: true}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)
	// 模擬 redis 掛掉
	mockFeed.On("Publish", ctx, mock.Anything).Return(assert.AnError)

	uc := NewSendMessageUseCase(mockMsgRepo, mockShowRepo, mockFeed, nil)
	msg, err := uc.Execute(ctx, showID, "viewer-1", domain.SenderViewer, "hello")

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	mockFeed.AssertExpectations(t)
}
