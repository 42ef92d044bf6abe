package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.Info("Kafka publisher initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic),
	)

	return newKafkaPublisher(writer, topic, log)
}

func newKafkaPublisher(writer messageWriter, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		log:    log.With(zap.String("publisher", "kafka")),
	}
}

// Publish keys messages by review id so a review's events stay ordered
// within one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event ReviewEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.ReviewID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	p.log.Debug("Event published",
		zap.String("type", string(event.Type)),
		zap.String("review_id", event.ReviewID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.log.Info("Kafka publisher closed")
	return p.writer.Close()
}
