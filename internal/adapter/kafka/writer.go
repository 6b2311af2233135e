package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/config"
	"github.com/DanielVondra/cardata-mock/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces flushed cell summaries to the sink topic.
// It implements engine.SummaryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes the flushed summaries in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishSummaries(ctx context.Context, summaries []domain.CellSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a cell summary into a Kafka message keyed by
// its H3 index.
func serializeToMessage(sum domain.CellSummary) (kafkago.Message, error) {
	data, err := json.Marshal(sum)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sum.H3Index),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "road_condition", Value: []byte(sum.RoadCondition)},
			{Key: "last_updated", Value: []byte(sum.LastUpdated.Format(time.RFC3339))},
		},
	}, nil
}
