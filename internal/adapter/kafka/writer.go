package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces raw sighting records to the ingest topic.
type Publisher struct {
	writer *kafkago.Writer
	source string
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for topic. source is recorded in a
// message header so replays can be traced back to their input file.
func NewPublisher(brokers []string, topic, source string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, source: source, logger: logger}
}

// PublishBatch serializes and publishes records in a single WriteMessages call.
func (p *Publisher) PublishBatch(ctx context.Context, records []domain.RawSightingRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], p.source, now)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	p.logger.Debug("published batch", "topic", p.writer.Topic, "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a raw record into a Kafka message keyed by its
// timestamp and position so duplicates land on the same partition.
func serializeToMessage(rec domain.RawSightingRecord, source string, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sighting record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.DateTime + "|" + rec.Latitude + "|" + rec.Longitude),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
