package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
)

// BatchExtractor reads up to batchSize raw sighting records from the topic.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns one raw record into an enriched sighting.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.Sighting, error)
}

// BatchLoader upserts sightings into the store.
type BatchLoader interface {
	LoadBatch(ctx context.Context, sightings []domain.Sighting) error
}

// Retry delays after the topic or the store fails.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// ErrNoSightingsLoaded is reported by CheckReadiness until the first batch of
// sightings reaches the store.
var ErrNoSightingsLoaded = errors.New("no sightings stored yet")

// Pipeline consumes raw sighting records and keeps the dashboard store filled.
// Offsets are committed only for records that were stored or rejected, so a
// crash replays at most the batch in flight; the store's upsert absorbs it.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	stored      atomic.Bool
	batchSize   int
}

// New wires a Pipeline.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness reports ErrNoSightingsLoaded until a batch has been stored.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.stored.Load() {
		return ErrNoSightingsLoaded
	}
	return nil
}

// Run ingests until ctx is cancelled. Failures of the topic or the store are
// retried with capped exponential backoff and never end the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("sightings ingest started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	retry := initialBackoff
	for ctx.Err() == nil {
		if err := p.ingest(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("sightings ingest failed", "error", err, "retry_in", retry)
			if !sleep(ctx, retry) {
				break
			}
			retry = min(retry*2, maxBackoff)
			continue
		}
		retry = initialBackoff
	}

	p.logger.Info("sightings ingest stopped", "reason", context.Cause(ctx))
	return nil
}

// ingest moves one batch from the topic into the store.
func (p *Pipeline) ingest(ctx context.Context) error {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	sightings, accepted := p.transform(ctx, batch)
	if len(sightings) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, sightings); err != nil {
		return err
	}
	p.metrics.SightingsLoaded.Add(float64(len(sightings)))
	for _, raw := range accepted {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.stored.Store(true)
	return nil
}

// transform enriches every record of the batch. Records that cannot become a
// sighting are committed at once so they are not redelivered; the rest are
// returned alongside the sightings built from them.
func (p *Pipeline) transform(ctx context.Context, batch []domain.RawEvent) ([]domain.Sighting, []domain.RawEvent) {
	sightings := make([]domain.Sighting, 0, len(batch))
	accepted := make([]domain.RawEvent, 0, len(batch))

	for _, raw := range batch {
		s, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("sighting rejected",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		sightings = append(sightings, s)
		accepted = append(accepted, raw)
	}
	return sightings, accepted
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("offset commit failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
