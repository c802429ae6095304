package app

import (
	"context"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/internal/chat/repository"
	"live_shopping_service/pkg"
	"live_shopping_service/pkg/logger"

	"go.uber.org/zap"
)

// ReportMessageUseCase 檢舉訊息，丟進審核佇列等人工處理
type ReportMessageUseCase struct {
	queue  repository.ModerationQueue
	events repository.ChatEventProducer
}

// NewReportMessageUseCase create a ReportMessageUseCase
func NewReportMessageUseCase(queue repository.ModerationQueue, events repository.ChatEventProducer) *ReportMessageUseCase {
	return &ReportMessageUseCase{queue: queue, events: events}
}

// Execute 原因要在名單內，驗證擋在所有 I/O 之前。
// 佇列掛了不擋使用者，記 log 讓營運補救
func (uc *ReportMessageUseCase) Execute(ctx context.Context, showID, messageID, reporterID, reason string) (string, error) {
	if !pkg.Contains(domain.ReportReasons, reason) {
		return "", domain.ErrUnknownReportReason
	}

	report := domain.MessageReport{
		ID:         newMessageID(),
		ShowID:     showID,
		MessageID:  messageID,
		ReporterID: reporterID,
		Reason:     reason,
		CreatedAt:  nowFunc().UnixMilli(),
	}

	if uc.queue != nil {
		if err := uc.queue.PublishReport(report); err != nil {
			logger.Log.Errorf("publish report failed:", err, zap.String("showID", showID))
		}
	}
	if uc.events != nil {
		if err := uc.events.MessageReported(ctx, report); err != nil {
			logger.Log.Errorf("emit message_reported failed:", err, zap.String("showID", showID))
		}
	}
	return report.ID, nil
}
