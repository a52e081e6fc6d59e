package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishSettlement(t *testing.T) {
	writer := &recordingWriter{}
	p := &Publisher{writer: writer}
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	entry := domain.SettlementEntry{
		SettlementID:  "stl-1",
		ReferenceType: domain.RefBooking,
		ReferenceID:   "B-1",
		TotalAmount:   decimal.RequireFromString("703.5"),
		Legs: []domain.Leg{
			{AccountID: "wallet", Direction: domain.Debit, Amount: decimal.RequireFromString("703.5")},
			{AccountID: "clearing", Direction: domain.Credit, Amount: decimal.RequireFromString("703.5")},
		},
	}
	require.NoError(t, p.PublishSettlement(context.Background(), domain.NewSettlementNotification(entry, at)))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "BOOKING:B-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, string(domain.NotificationPosted), string(msg.Headers[0].Value))

	var decoded domain.SettlementNotification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "stl-1", decoded.SettlementID)
	assert.Len(t, decoded.Legs, 2)
	assert.True(t, decoded.TotalAmount.Equal(entry.TotalAmount))

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestPublishSettlement_WriterError(t *testing.T) {
	p := &Publisher{writer: &recordingWriter{err: assert.AnError}}

	err := p.PublishSettlement(context.Background(), domain.SettlementNotification{SettlementID: "stl-2"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishSettlement(context.Background(), domain.SettlementNotification{}))
}

func TestNewPublisher_FlushesSingleMessagesPromptly(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)

	assert.Equal(t, DefaultTopic, writer.Topic)
	assert.LessOrEqual(t, writer.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, kafka.RequireAll, writer.RequiredAcks)
	require.NoError(t, p.Close())
}
