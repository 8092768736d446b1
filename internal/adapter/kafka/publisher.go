// Package kafka publishes completed analysis records to a sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/config"
	"github.com/couchcryptid/cityscout-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces analysis records to a Kafka topic. It implements
// analyzer.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one analysis record and writes it to the sink topic.
func (p *Publisher) Publish(ctx context.Context, record domain.AnalysisRecord) error {
	msg, err := serializeToMessage(record)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an AnalysisRecord into a Kafka message keyed by
// "City, ST" so repeated analyses of the same place land on one partition.
func serializeToMessage(record domain.AnalysisRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analysis record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.City + ", " + record.State),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "demographic_source", Value: []byte(record.DemographicSource)},
			{Key: "completed_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
