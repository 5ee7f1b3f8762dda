package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/observability"
)

// KafkaPublisher mirrors engine events to a Kafka topic for consumers
// outside the process. Publishing is best-effort: errors are logged and
// never propagated to the caller's operation.
type KafkaPublisher struct {
	w     *kafka.Writer
	topic string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	log := observability.GetLogger(ctx)

	value, err := json.Marshal(ev)
	if err != nil {
		log.Error("events: marshal failed", zap.Error(err))
		return nil
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(ev.ThreadID),
		Value: value,
	})
	if err != nil {
		log.Error("events: kafka publish failed",
			zap.String("type", string(ev.Type)),
			zap.String("thread_id", ev.ThreadID),
			zap.Error(err),
		)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error { return p.w.Close() }
