//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/DanielVondra/cardata-mock/internal/adapter/kafka"
	"github.com/DanielVondra/cardata-mock/internal/config"
	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/engine"
	"github.com/DanielVondra/cardata-mock/internal/grid"
	"github.com/DanielVondra/cardata-mock/internal/ingest"
	"github.com/DanielVondra/cardata-mock/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testSourceTopic = "test-raw-observations"
	testSinkTopic   = "test-cell-summaries"
)

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T) *engine.Service {
	t.Helper()
	svc, err := engine.New(engine.Config{
		Seed:            42,
		CellCount:       50,
		HotspotCount:    10,
		H3Resolution:    7,
		FlushInterval:   time.Hour,
		ProduceInterval: time.Hour,
		ProduceBatch:    1,
	}, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	return svc
}

// TestKafkaIngestToSnapshot drives a raw observation through real Kafka into
// the engine and verifies it lands in the flushed snapshot, then publishes
// the snapshot to the sink topic and reads it back.
func TestKafkaIngestToSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaSourceTopic: testSourceTopic,
		KafkaSinkTopic:   testSinkTopic,
		KafkaGroupID:     fmt.Sprintf("test-ingest-%d", time.Now().UnixNano()),
	}

	indexer, err := grid.NewIndexer(7)
	require.NoError(t, err)
	berlinCell, err := indexer.CellID(52.52, 13.405)
	require.NoError(t, err)

	// Publish a poison pill followed by a valid observation.
	payload, err := json.Marshal(map[string]any{
		"h3_index":       berlinCell,
		"temperature":    10.0,
		"rain_intensity": "LOW",
	})
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte(berlinCell), Value: payload},
	))

	// Wire reader → runner → engine.
	svc := newEngine(t)

	reader := kafkaadapter.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	runner := ingest.NewRunner(reader, svc, discardLogger(), observability.NewMetricsForTesting(), 10)

	runCtx, runCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(runCtx) }()

	require.Eventually(t, func() bool {
		return runner.Consumed() >= 1
	}, 90*time.Second, 250*time.Millisecond, "observation consumed from source topic")

	runCancel()
	require.NoError(t, <-errCh)

	// The poison pill was skipped; only the valid observation accumulated.
	summaries := svc.Flush()
	require.Len(t, summaries, 1)
	sum := summaries[0]
	assert.Equal(t, berlinCell, sum.H3Index)
	assert.Equal(t, 10.0, sum.Temperature)
	assert.Equal(t, domain.RainLow, sum.RainIntensity)
	assert.Equal(t, 80, sum.Confidence)
	assert.Equal(t, 1, sum.TotalCount)

	// Publish the flushed snapshot and read it back from the sink topic.
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishSummaries(ctx, summaries))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	assert.Equal(t, berlinCell, string(msg.Key))

	var roundtrip domain.CellSummary
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, sum.H3Index, roundtrip.H3Index)
	assert.Equal(t, sum.Temperature, roundtrip.Temperature)
	assert.Equal(t, sum.RainIntensity, roundtrip.RainIntensity)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, string(sum.RoadCondition), headers["road_condition"])
	_, err = time.Parse(time.RFC3339, headers["last_updated"])
	assert.NoError(t, err, "last_updated should be valid RFC3339")
}
