package events

import (
	"context"
	"encoding/json"
	"time"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher announces image lifecycle changes to other services.
type Publisher interface {
	Publish(ctx context.Context, ev models.ImageEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafkago.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev models.ImageEvent) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// encode keys messages by image id so every event of one image lands on the
// same partition, in order.
func encode(ev models.ImageEvent) (kafkago.Message, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(ev.ImageID),
		Value: b,
		Time:  ev.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}, nil
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.ImageEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
