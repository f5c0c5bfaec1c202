package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaDispatcherPublishesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	d := newKafkaDispatcher(w, "carmod.")
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	orderID := uuid.New()
	event := OrderStatusChanged{OrderID: orderID, CustomerID: uuid.New(), From: models.OrderPending, To: models.OrderShipped}
	require.NoError(t, d.Dispatch(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "carmod.order", msg.Topic)
	assert.Equal(t, orderID.String(), string(msg.Key))

	var decoded struct {
		Type        string          `json:"type"`
		AggregateID uuid.UUID       `json:"aggregateId"`
		OccurredAt  time.Time       `json:"occurredAt"`
		Payload     json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "OrderStatusChanged", decoded.Type)
	assert.Equal(t, orderID, decoded.AggregateID)
	assert.True(t, fixed.Equal(decoded.OccurredAt))
	assert.Contains(t, string(decoded.Payload), `"to":"Shipped"`)
}

func TestKafkaDispatcherWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	d := newKafkaDispatcher(w, "carmod.")

	err := d.Dispatch(context.Background(), OrderCreated{OrderID: uuid.New(), TotalAmount: decimal.NewFromInt(10)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OrderCreated")
}

type failingDispatcher struct{ calls int }

func (f *failingDispatcher) Dispatch(context.Context, Event) error {
	f.calls++
	return errors.New("unavailable")
}

func TestPublishSwallowsErrors(t *testing.T) {
	d := &failingDispatcher{}
	Publish(context.Background(), d,
		BookingCreated{BookingID: uuid.New()},
		ConfigurationStatusChanged{ConfigurationID: uuid.New()},
	)
	assert.Equal(t, 2, d.calls)

	assert.NotPanics(t, func() { Publish(context.Background(), nil, OrderCreated{}) })
}

func TestKafkaWriterFlushesQuickly(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"})
	defer w.Close()

	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}
