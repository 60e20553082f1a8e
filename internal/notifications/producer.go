package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiketix/internal/shared/config"
	"tiketix/pkg/logger"

	"github.com/IBM/sarama"
)

// Booking lifecycle event types published to the booking topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message published for every booking state change.
// Consumers (email, analytics) key off Type.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes booking events. Implementations must be safe for
// concurrent use.
type Producer interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer builds a synchronous idempotent producer. Messages for
// the same user land on the same partition so per-user ordering holds.
func NewKafkaProducer(cfg config.KafkaConfig, log *logger.Logger) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.BookingTopic,
		log:      log,
	}, nil
}

func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.UserID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	p.log.Debug("booking event published",
		"type", event.Type,
		"booking_id", event.BookingID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}
