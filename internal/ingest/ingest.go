package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/observability"
)

// Event is a raw car observation read from the source topic, together with
// enough metadata to commit its offset after it has been applied.
type Event struct {
	CellID      string
	Observation domain.Observation

	Topic     string
	Partition int
	Offset    int64
	Commit    func(ctx context.Context) error
}

// BatchExtractor reads up to batchSize raw observations from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]Event, error)
}

// Sink accepts decoded observations. *engine.Service satisfies it.
type Sink interface {
	PushRawEvent(cellID string, obs domain.Observation) error
}

// Runner pumps raw observations from an extractor into the engine until its
// context is cancelled. Rejected observations are skipped with a committed
// offset, so a single bad message never wedges the partition.
type Runner struct {
	extractor BatchExtractor
	sink      Sink
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
	consumed  atomic.Int64
}

func NewRunner(e BatchExtractor, sink Sink, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Runner {
	return &Runner{
		extractor: e,
		sink:      sink,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Consumed returns the number of observations applied so far.
func (r *Runner) Consumed() int64 {
	return r.consumed.Load()
}

// Run executes the consume loop until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("ingest runner started", "batch_size", r.batchSize)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ingest runner stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !r.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-apply cycle. Returns false if the runner
// should stop.
func (r *Runner) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	batch, err := r.extractor.ExtractBatch(ctx, r.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.logger.Error("extract batch failed", "error", err)
		r.metrics.KafkaErrors.Inc()
		return r.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(batch) == 0 {
		return ctx.Err() == nil
	}

	r.metrics.KafkaConsumed.Add(float64(len(batch)))
	*backoff = 200 * time.Millisecond

	applied := 0
	for _, ev := range batch {
		if err := r.sink.PushRawEvent(ev.CellID, ev.Observation); err != nil {
			r.logger.Warn("observation rejected, skipping message",
				"error", err,
				"cell_id", ev.CellID,
				"topic", ev.Topic,
				"partition", ev.Partition,
				"offset", ev.Offset,
			)
		} else {
			applied++
		}
		// Rejected messages are committed too: redelivery cannot fix them.
		r.commitOffset(ctx, ev)
	}

	r.consumed.Add(int64(applied))
	return true
}

func (r *Runner) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func (r *Runner) commitOffset(ctx context.Context, ev Event) {
	if ev.Commit == nil {
		return
	}
	if err := ev.Commit(ctx); err != nil {
		r.logger.Warn("commit offset failed", "error", err,
			"topic", ev.Topic, "partition", ev.Partition, "offset", ev.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
