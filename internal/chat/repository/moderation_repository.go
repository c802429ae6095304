package repository

import (
	"encoding/json"

	"live_shopping_service/internal/chat/domain"
	"live_shopping_service/pkg/database"

	"github.com/streadway/amqp"
)

// ModerationQueue definition report sink for the moderation backend
type ModerationQueue interface {
	// PublishReport 將檢舉丟進審核佇列
	PublishReport(report domain.MessageReport) error
}

type rabbitModerationQueue struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewRabbitModerationQueue create a ModerationQueue，
// 宣告 durable queue，審核後台重啟不掉單
func NewRabbitModerationQueue(rabbit database.RabbitRepo, queue string) (ModerationQueue, error) {
	if _, err := rabbit.QueueDeclare(queue, true); err != nil {
		return nil, err
	}
	return &rabbitModerationQueue{rabbit: rabbit, queue: queue}, nil
}

func (r *rabbitModerationQueue) PublishReport(report domain.MessageReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return r.rabbit.Publish("", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp.Persistent,
	})
}
