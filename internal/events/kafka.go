package events

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaSink implements Sink on one shared Kafka writer; the topic is chosen
// per message. Transient broker errors are retried briefly inside Publish so
// that callers can stay fire-and-forget.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a sink for the given brokers.
func NewKafkaSink(brokers []string) *KafkaSink {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{writer: writer}
}

// Publish writes one message. Each message is keyed with a fresh event id so
// records spread across partitions.
func (s *KafkaSink) Publish(ctx context.Context, topic string, payload []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(uuid.NewString()),
		Value: payload,
	}

	write := func() error {
		return s.writer.WriteMessages(ctx, msg)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	if err := backoff.Retry(write, policy); err != nil {
		log.Error().
			Str("topic", topic).
			Err(err).
			Msg("failed to publish event")
		return err
	}

	log.Debug().
		Str("topic", topic).
		Int("payload_length", len(payload)).
		Msg("event published")
	return nil
}

// Close closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
