package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic is used when no settlement topic is configured.
const DefaultTopic = "settlement_posted"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes settlement notifications to a Kafka topic, keyed by
// idempotency key so every message for one reference lands on one partition.
type Publisher struct {
	writer messageWriter
}

var _ portssvc.SettlementPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *Publisher) PublishSettlement(ctx context.Context, notification domain.SettlementNotification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to encode settlement notification: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(domain.IdempotencyKey(notification.ReferenceType, notification.ReferenceID)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(notification.Kind)},
		},
		Time: notification.OccurredAt,
	})
}

// Close flushes pending messages and releases the connection.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every notification. It stands in when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSettlement(context.Context, domain.SettlementNotification) error {
	return nil
}
