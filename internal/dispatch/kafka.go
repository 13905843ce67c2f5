// README: Kafka producer for dispatch events.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger *slog.Logger) *KafkaProducer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaProducer{writer: w, logger: logger}
}

// Publish writes one event keyed by ride id so all events for a ride land
// in order on one partition. Publish failures are logged, not returned:
// a broker outage must not fail the booking or negotiation write that
// already committed.
func (k *KafkaProducer) Publish(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	b, err := json.Marshal(e)
	if err != nil {
		k.log("marshal dispatch event", e, err)
		return
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.RideID), Value: b}); err != nil {
		k.log("publish dispatch event", e, err)
	}
}

func (k *KafkaProducer) log(msg string, e Event, err error) {
	if k.logger != nil {
		k.logger.Error(msg, "type", e.Type, "ride_id", e.RideID, "error", err)
	}
}

func (k *KafkaProducer) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
