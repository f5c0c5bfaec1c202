package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// messageWriter is the part of *kafka.Writer the dispatcher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher publishes every event as JSON to "<prefix><aggregate>",
// keyed by aggregate id so one aggregate's events stay ordered on a partition.
type KafkaDispatcher struct {
	writer      messageWriter
	topicPrefix string
	now         func() time.Time
}

var _ Dispatcher = (*KafkaDispatcher)(nil)

// batchTimeout bounds how long a write waits for a batch to fill; Publish
// runs on the request path.
const batchTimeout = 10 * time.Millisecond

// NewKafkaWriter creates a writer with no fixed topic; each message names its own.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           5 * time.Second,
	}
}

func NewKafkaDispatcher(brokers []string, topicPrefix string) *KafkaDispatcher {
	return newKafkaDispatcher(NewKafkaWriter(brokers), topicPrefix)
}

func newKafkaDispatcher(w messageWriter, topicPrefix string) *KafkaDispatcher {
	return &KafkaDispatcher{writer: w, topicPrefix: topicPrefix, now: time.Now}
}

// Topic returns the topic an event is published to
func (d *KafkaDispatcher) Topic(event Event) string {
	return d.topicPrefix + event.Aggregate()
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, event Event) error {
	value, err := json.Marshal(NewEnvelope(event, d.now()))
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", event.Type())
	}

	msg := kafka.Message{
		Topic: d.Topic(event),
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Time:  d.now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type())},
		},
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to publish %s for %s", event.Type(), event.AggregateID())
	}

	log.Debugf("📣 Dispatch: published %s to %s", event.Type(), msg.Topic)
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
