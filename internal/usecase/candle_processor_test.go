package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TradeLens/internal/domain/models"
)

type fakeWriter struct {
	stored  []*models.Candle
	batches int
	fail    bool
	closed  bool
}

func (w *fakeWriter) Store(ctx context.Context, c *models.Candle) error {
	if w.fail {
		return fmt.Errorf("write failed")
	}
	w.stored = append(w.stored, c)
	return nil
}

func (w *fakeWriter) StoreBatch(ctx context.Context, candles []*models.Candle) error {
	if w.fail {
		return fmt.Errorf("write failed")
	}
	w.stored = append(w.stored, candles...)
	w.batches++
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordCandleStored(backend, symbol string) {}
func (noopMetrics) RecordError(kind string)                   {}
func (noopMetrics) RecordLastPrice(symbol string, p float64)  {}
func (noopMetrics) RecordLatency(op string, seconds float64)  {}

func TestProcessorRoutesToKafka(t *testing.T) {
	pub, store := &fakeWriter{}, &fakeWriter{}
	p := NewCandleProcessor(pub, store, noopMetrics{}, "kafka", 100, time.Second)

	c := seriesCandle(1000, 100)
	if err := p.Process(context.Background(), &c); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.stored) != 1 || len(store.stored) != 0 {
		t.Errorf("kafka=%d clickhouse=%d, want 1/0", len(pub.stored), len(store.stored))
	}
}

func TestProcessorRoutesToClickHouse(t *testing.T) {
	pub, store := &fakeWriter{}, &fakeWriter{}
	p := NewCandleProcessor(pub, store, noopMetrics{}, "clickhouse", 100, time.Second)

	c := seriesCandle(1000, 100)
	if err := p.Process(context.Background(), &c); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.stored) != 0 || len(store.stored) != 1 {
		t.Errorf("kafka=%d clickhouse=%d, want 0/1", len(pub.stored), len(store.stored))
	}
}

func TestProcessorRejectsUnknownBackend(t *testing.T) {
	p := NewCandleProcessor(&fakeWriter{}, &fakeWriter{}, noopMetrics{}, "postgres", 100, time.Second)
	c := seriesCandle(1000, 100)
	if err := p.Process(context.Background(), &c); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestProcessorNilCandle(t *testing.T) {
	p := NewCandleProcessor(&fakeWriter{}, &fakeWriter{}, noopMetrics{}, "kafka", 100, time.Second)
	if err := p.Process(context.Background(), nil); err == nil {
		t.Error("nil candle accepted")
	}
}

func TestProcessorBatch(t *testing.T) {
	pub := &fakeWriter{}
	p := NewCandleProcessor(pub, &fakeWriter{}, noopMetrics{}, "kafka", 100, time.Second)

	a, b := seriesCandle(1000, 100), seriesCandle(1060, 101)
	if err := p.ProcessBatch(context.Background(), []*models.Candle{&a, &b}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if pub.batches != 1 || len(pub.stored) != 2 {
		t.Errorf("batches=%d stored=%d, want 1/2", pub.batches, len(pub.stored))
	}
	if err := p.ProcessBatch(context.Background(), nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestProcessorBatchChunksBySize(t *testing.T) {
	pub := &fakeWriter{}
	p := NewCandleProcessor(pub, &fakeWriter{}, noopMetrics{}, "kafka", 2, time.Second)

	candles := make([]*models.Candle, 5)
	for i := range candles {
		c := seriesCandle(1000+int64(i)*60, 100+float64(i))
		candles[i] = &c
	}
	if err := p.ProcessBatch(context.Background(), candles); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if pub.batches != 3 {
		t.Errorf("backend calls = %d, want 3 (chunks of 2, 2, 1)", pub.batches)
	}
	if len(pub.stored) != 5 {
		t.Errorf("stored = %d, want 5", len(pub.stored))
	}
}

func TestProcessorPropagatesWriteError(t *testing.T) {
	p := NewCandleProcessor(&fakeWriter{fail: true}, &fakeWriter{}, noopMetrics{}, "kafka", 100, time.Second)
	c := seriesCandle(1000, 100)
	if err := p.Process(context.Background(), &c); err == nil {
		t.Error("write failure swallowed")
	}
}

func TestProcessorCloseClosesWriters(t *testing.T) {
	pub, store := &fakeWriter{}, &fakeWriter{}
	p := NewCandleProcessor(pub, store, noopMetrics{}, "kafka", 100, time.Second)
	p.Close()
	if !pub.closed || !store.closed {
		t.Errorf("closed: kafka=%v clickhouse=%v, want both", pub.closed, store.closed)
	}
}
