package repository

import (
	"context"
	"encoding/json"

	"live_shopping_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// ChatEventProducer definition chat analytics event sink
type ChatEventProducer interface {
	// MessageCreated 發出新訊息事件
	MessageCreated(ctx context.Context, msg domain.ChatMessage) error
	// MessageReported 發出檢舉事件
	MessageReported(ctx context.Context, report domain.MessageReport) error
}

type kafkaChatEventProducer struct {
	writer *kafka.Writer
}

// NewKafkaChatEventProducer create a ChatEventProducer
func NewKafkaChatEventProducer(writer *kafka.Writer) ChatEventProducer {
	return &kafkaChatEventProducer{writer: writer}
}

func (p *kafkaChatEventProducer) MessageCreated(ctx context.Context, msg domain.ChatMessage) error {
	return p.emit(ctx, domain.ChatEvent{
		Type:       domain.EventMessageCreated,
		ShowID:     msg.ShowID,
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		SenderRole: msg.SenderRole,
		CreatedAt:  msg.CreatedAt,
	})
}

func (p *kafkaChatEventProducer) MessageReported(ctx context.Context, report domain.MessageReport) error {
	return p.emit(ctx, domain.ChatEvent{
		Type:      domain.EventMessageReported,
		ShowID:    report.ShowID,
		MessageID: report.MessageID,
		SenderID:  report.ReporterID,
		CreatedAt: report.CreatedAt,
	})
}

// emit 以 show_id 當 key，同場次事件落同一分區保序
func (p *kafkaChatEventProducer) emit(ctx context.Context, event domain.ChatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ShowID),
		Value: data,
	})
}
