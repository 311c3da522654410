package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
)

// CandleProcessor routes closed candles to the configured backend.
type CandleProcessor struct {
	pub     drepo.CandleWriter // kafka
	store   drepo.CandleWriter // clickhouse
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewCandleProcessor creates a new CandleProcessor instance.
func NewCandleProcessor(
	pub drepo.CandleWriter,
	store drepo.CandleWriter,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *CandleProcessor {
	return &CandleProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single candle to the configured backend.
func (p *CandleProcessor) Process(ctx context.Context, c *models.Candle) error {
	if c == nil {
		return fmt.Errorf("candle is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Store(ctx, c)
	case "clickhouse":
		err = p.store.Store(ctx, c)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process candle: %w", err)
	}

	p.metrics.RecordCandleStored(p.backend, c.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes candles to the backend in chunks of the configured
// batch size, each chunk under its own write deadline.
func (p *CandleProcessor) ProcessBatch(ctx context.Context, candles []*models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	start := time.Now()
	sz := p.batchSz
	if sz <= 0 {
		sz = len(candles)
	}

	for i := 0; i < len(candles); i += sz {
		end := i + sz
		if end > len(candles) {
			end = len(candles)
		}
		if err := p.storeChunk(ctx, candles[i:end]); err != nil {
			p.metrics.RecordError("process_batch")
			return fmt.Errorf("process batch: %w", err)
		}
	}

	for _, c := range candles {
		p.metrics.RecordCandleStored(p.backend, c.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

func (p *CandleProcessor) storeChunk(ctx context.Context, chunk []*models.Candle) error {
	if p.batchTO > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.batchTO)
		defer cancel()
	}

	switch p.backend {
	case "kafka":
		return p.pub.StoreBatch(ctx, chunk)
	case "clickhouse":
		return p.store.StoreBatch(ctx, chunk)
	default:
		return fmt.Errorf("unknown backend: %s", p.backend)
	}
}

// Close closes underlying resources if available.
func (p *CandleProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
