package usecase

import (
	"context"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	mid "TradeLens/internal/middleware"
)

// CandleCollector consumes the live candle stream, feeds the processing
// pipeline, and keeps the in-memory analysis window current.
type CandleCollector struct {
	stream     drepo.CandleStream
	backfiller drepo.CandleBackfiller
	proc       *CandleProcessor
	series     *SeriesBuffer
	metrics    drepo.Metrics
	pipe       *mid.CandlePipeline

	symbols       []string
	timeframe     drepo.Timeframe
	backfillLimit int
}

// NewCandleCollector creates a new CandleCollector instance.
func NewCandleCollector(
	stream drepo.CandleStream,
	backfiller drepo.CandleBackfiller,
	proc *CandleProcessor,
	series *SeriesBuffer,
	metrics drepo.Metrics,
	pipe *mid.CandlePipeline,
	symbols []string,
	tf drepo.Timeframe,
	backfillLimit int,
) *CandleCollector {
	return &CandleCollector{
		stream:        stream,
		backfiller:    backfiller,
		proc:          proc,
		series:        series,
		metrics:       metrics,
		pipe:          pipe,
		symbols:       symbols,
		timeframe:     tf,
		backfillLimit: backfillLimit,
	}
}

// IsConnected returns true if the market stream is connected.
func (c *CandleCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start backfills history, connects the stream, and begins consuming.
func (c *CandleCollector) Start(ctx context.Context) error {
	if err := c.backfill(ctx); err != nil {
		return err
	}
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	candleCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, candleCh, errCh)
	return nil
}

// backfill seeds the analysis window so signals are available before the
// first live candle closes.
func (c *CandleCollector) backfill(ctx context.Context) error {
	if c.backfiller == nil {
		return nil
	}
	for _, symbol := range c.symbols {
		history, err := c.backfiller.FetchHistory(ctx, symbol, c.timeframe, c.backfillLimit)
		if err != nil {
			c.metrics.RecordError("backfill")
			return err
		}
		c.series.Seed(symbol, history)
	}
	return nil
}

func (c *CandleCollector) consume(ctx context.Context, candleCh <-chan *models.Candle, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case candle := <-candleCh:
			if candle == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, candle)
			} else {
				_ = c.proc.Process(ctx, candle)
			}
			c.series.Append(candle)
			c.metrics.RecordLastPrice(candle.Symbol, candle.Close)
		}
	}
}

func (c *CandleCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying CandleProcessor for lifecycle management.
func (c *CandleCollector) Processor() *CandleProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *CandleCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
