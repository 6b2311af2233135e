package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/config"
	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/ingest"
	kafkago "github.com/segmentio/kafka-go"
)

const fetchTimeout = 2 * time.Second

// rawObservation is the wire form of a message on the source topic: a cell
// id plus the observation fields.
type rawObservation struct {
	H3Index string `json:"h3_index"`
	domain.Observation
}

// Reader consumes raw car observations from the source topic.
// It implements ingest.BatchExtractor.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{reader: r, logger: logger}
}

// ExtractBatch fetches up to batchSize messages. It returns early with a
// partial batch when no further message arrives within a short window, so
// ingestion stays responsive on quiet topics.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]ingest.Event, error) {
	events := make([]ingest.Event, 0, batchSize)

	for len(events) < batchSize {
		fetchCtx := ctx
		var cancel context.CancelFunc
		if len(events) > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, fetchTimeout)
		}

		msg, err := r.reader.FetchMessage(fetchCtx)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if len(events) > 0 && ctx.Err() == nil {
				return events, nil
			}
			return nil, err
		}

		ev, err := decodeMessage(msg)
		if err != nil {
			r.logger.Warn("malformed observation, skipping message",
				"error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			if err := r.reader.CommitMessages(ctx, msg); err != nil {
				r.logger.Warn("commit offset failed", "error", err)
			}
			continue
		}
		ev.Commit = func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		}
		events = append(events, ev)
	}

	return events, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// decodeMessage unmarshals a Kafka message into an ingest event. The caller
// attaches the offset commit.
func decodeMessage(msg kafkago.Message) (ingest.Event, error) {
	var raw rawObservation
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		return ingest.Event{}, fmt.Errorf("decode raw observation: %w", err)
	}
	if raw.H3Index == "" {
		return ingest.Event{}, errors.New("raw observation missing h3_index")
	}
	return ingest.Event{
		CellID:      raw.H3Index,
		Observation: raw.Observation,
		Topic:       msg.Topic,
		Partition:   msg.Partition,
		Offset:      msg.Offset,
	}, nil
}
