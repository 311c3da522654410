package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs. Live candles
// go through Process; the retry buffer drains through ProcessBatch.
type Proc interface {
	Process(ctx context.Context, c *models.Candle) error
	ProcessBatch(ctx context.Context, candles []*models.Candle) error
}

// CandlePipeline sits between the market stream and the storage backend.
// It validates OHLC shape, enforces per-symbol time monotonicity, and
// buffers candles when downstream is unavailable.
type CandlePipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan *models.Candle
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	// lastTime holds the last accepted candle open time per symbol.
	lastTime map[string]int64
}

type PipelineOption func(*CandlePipeline)

// WithBufferSize sets the retry buffer size used when downstream fails.
func WithBufferSize(n int) PipelineOption {
	return func(p *CandlePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewCandlePipeline creates a new pipeline.
func NewCandlePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *CandlePipeline {
	p := &CandlePipeline{
		proc:     proc,
		metrics:  metrics,
		bufSize:  1000,
		bufCh:    make(chan *models.Candle, 1000),
		stopCh:   make(chan struct{}),
		lastTime: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Candle, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered candles.
func (p *CandlePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case c := <-p.bufCh:
				if c == nil {
					continue
				}
				if err := p.flushBatch(ctx, c); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					time.Sleep(backoff)
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// flushBatch drains whatever else is buffered behind first and hands the
// whole batch to the processor, which chunks it by its own batch size.
// On failure the batch is requeued while space remains.
func (p *CandlePipeline) flushBatch(ctx context.Context, first *models.Candle) error {
	batch := []*models.Candle{first}
collect:
	for len(batch) < p.bufSize {
		select {
		case c := <-p.bufCh:
			if c != nil {
				batch = append(batch, c)
			}
		default:
			break collect
		}
	}
	if err := p.proc.ProcessBatch(ctx, batch); err != nil {
		p.metrics.RecordError("pipeline_flush")
		for _, c := range batch {
			select {
			case p.bufCh <- c:
			default:
				p.metrics.RecordError("pipeline_buffer_drop")
			}
		}
		return err
	}
	return nil
}

// Stop stops the background flushing.
func (p *CandlePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and forwards a candle downstream, buffering on errors.
// Stale or duplicate candles (open time not after the last accepted one for
// the symbol) are dropped without error.
func (p *CandlePipeline) Process(ctx context.Context, c *models.Candle) error {
	start := time.Now()
	if err := validateCandle(c); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.accept(c) {
		p.metrics.RecordError("pipeline_stale_candle")
		return nil
	}

	if err := p.proc.Process(ctx, c); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- c:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateCandle(c *models.Candle) error {
	if c == nil {
		return fmt.Errorf("candle nil")
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if c.Time <= 0 {
		return fmt.Errorf("time invalid")
	}
	if c.Open <= 0 || c.Close <= 0 || c.Volume < 0 {
		return fmt.Errorf("non-positive price or negative volume")
	}
	maxBody := c.Open
	if c.Close > maxBody {
		maxBody = c.Close
	}
	minBody := c.Open
	if c.Close < minBody {
		minBody = c.Close
	}
	if c.High < maxBody || c.Low > minBody {
		return fmt.Errorf("high/low outside body bounds")
	}
	return nil
}

// accept enforces strictly increasing candle open times per symbol.
func (p *CandlePipeline) accept(c *models.Candle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if last, ok := p.lastTime[c.Symbol]; ok && c.Time <= last {
		return false
	}
	p.lastTime[c.Symbol] = c.Time
	return true
}
