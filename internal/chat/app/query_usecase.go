package app

import (
	"context"
	"fmt"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg"
	errprocess "live_shopping_service/pkg/err"
	"live_shopping_service/pkg/logger"

	"go.uber.org/zap"
)

// ChatQueryUseCase 查近期訊息與場次聊天狀態，REST 端點用
type ChatQueryUseCase struct {
	msgRepo   repository.MessageRepository
	showRepo  repository.ShowRepository
	directory repository.MemberDirectory
	presence  repository.PresenceRepository
}

// NewChatQueryUseCase create a ChatQueryUseCase
func NewChatQueryUseCase(
	msgRepo repository.MessageRepository,
	showRepo repository.ShowRepository,
	directory repository.MemberDirectory,
	presence repository.PresenceRepository,
) *ChatQueryUseCase {
	return &ChatQueryUseCase{
		msgRepo:   msgRepo,
		showRepo:  showRepo,
		directory: directory,
		presence:  presence,
	}
}

// RecentMessages 近期訊息帶顯示名稱。
// 一次性查詢，名稱不進快取；查名稱掛了整批用 fallback，訊息照出
func (uc *ChatQueryUseCase) RecentMessages(ctx context.Context, showID string, limit int) ([]domain.ChatEntry, error) {
	msgs, err := uc.msgRepo.FetchRecent(ctx, showID, limit)
	if err != nil {
		errMsg := fmt.Sprintf("showID[%s] 撈近期訊息失敗 : %v", showID, err)
		return nil, errprocess.Set(errMsg)
	}

	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.SenderRole == domain.SenderViewer {
			ids = append(ids, msg.SenderID)
		}
	}
	ids = pkg.Uniq(ids)

	names := map[string]string{}
	if len(ids) > 0 {
		fetched, err := uc.directory.FetchNames(ctx, ids)
		if err != nil {
			logger.Log.Errorf("fetch display names failed:", err, zap.String("showID", showID))
		} else {
			names = fetched
		}
	}

	entries := make([]domain.ChatEntry, 0, len(msgs))
	for _, msg := range msgs {
		entry := domain.ChatEntry{ChatMessage: msg}
		if msg.SenderRole == domain.SenderSeller {
			entry.DisplayName = domain.SellerDisplayName
		} else if name, ok := names[msg.SenderID]; ok {
			entry.DisplayName = name
		} else {
			entry.DisplayName = domain.FallbackDisplayName(msg.SenderID)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ShowState 場次聊天狀態與在線人數
func (uc *ChatQueryUseCase) ShowState(ctx context.Context, showID string) (domain.AvailabilityState, int64, error) {
	status, err := uc.showRepo.FetchStatus(ctx, showID)
	if err != nil {
		return domain.AvailabilityState{}, 0, err
	}

	count, err := uc.presence.Count(ctx, showID)
	if err != nil {
		logger.Log.Errorf("presence count failed:", err, zap.String("showID", showID))
		count = 0
	}
	return status.State(), count, nil
}
