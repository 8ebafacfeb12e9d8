package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "tickets"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes ticket events to a topic keyed by booking id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) PublishTicket(ctx context.Context, event domain.TicketEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write ticket event to kafka: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer reads ticket events as a member of a consumer group.
type KafkaConsumer struct {
	reader messageReader
	logger *slog.Logger
}

func NewKafkaConsumer(brokers []string, groupID, topic string, logger *slog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

// Consume calls handle for every event until ctx is cancelled or handle fails.
// Messages that are not valid ticket events are logged and skipped.
func (c *KafkaConsumer) Consume(ctx context.Context, handle func(context.Context, domain.TicketEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event domain.TicketEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("skipping malformed ticket event", "offset", msg.Offset, "error", err)
			continue
		}

		if err := handle(ctx, event); err != nil {
			return err
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
