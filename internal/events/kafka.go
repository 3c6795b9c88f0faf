package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
)

const StatusTopic = "payment.status.changed"

// KafkaStatusPublisher broadcasts resolved payment outcomes to Kafka,
// keyed by payment id so per-payment ordering survives partitioning.
type KafkaStatusPublisher struct {
	writer *kafka.Writer
}

func NewKafkaStatusPublisher(brokers string) *KafkaStatusPublisher {
	return &KafkaStatusPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    StatusTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type statusChangedEvent struct {
	PaymentID  string `json:"payment_id"`
	Status     string `json:"status"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	OccurredAt string `json:"occurred_at"`
}

func (p *KafkaStatusPublisher) PublishStatusChange(ctx context.Context, record models.PaymentRecord) error {
	event := statusChangedEvent{
		PaymentID:  record.ID,
		Status:     string(record.Status),
		Currency:   record.Currency,
		Amount:     record.Amount,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.ID),
		Value: value,
	})
}

func (p *KafkaStatusPublisher) Close() error {
	return p.writer.Close()
}
