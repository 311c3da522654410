package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"TradeLens/internal/domain/models"
)

type stubProc struct {
	mu      sync.Mutex
	got     []*models.Candle
	batches [][]*models.Candle
	failOn  bool
}

func (s *stubProc) Process(ctx context.Context, c *models.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn {
		return fmt.Errorf("downstream unavailable")
	}
	s.got = append(s.got, c)
	return nil
}

func (s *stubProc) ProcessBatch(ctx context.Context, candles []*models.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn {
		return fmt.Errorf("downstream unavailable")
	}
	s.got = append(s.got, candles...)
	s.batches = append(s.batches, candles)
	return nil
}

func (s *stubProc) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

type stubMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newStubMetrics() *stubMetrics { return &stubMetrics{errors: make(map[string]int)} }

func (m *stubMetrics) RecordCandleStored(backend, symbol string) {}
func (m *stubMetrics) RecordLastPrice(symbol string, p float64)  {}
func (m *stubMetrics) RecordLatency(op string, seconds float64)  {}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *stubMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func valid(t int64) *models.Candle {
	return &models.Candle{Symbol: "BTCUSDT", Time: t, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1}
}

func TestPipelineForwardsValidCandle(t *testing.T) {
	proc := &stubProc{}
	p := NewCandlePipeline(proc, newStubMetrics())

	if err := p.Process(context.Background(), valid(1000)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.count() != 1 {
		t.Errorf("downstream got %d candles, want 1", proc.count())
	}
}

func TestPipelineRejectsMalformed(t *testing.T) {
	proc := &stubProc{}
	m := newStubMetrics()
	p := NewCandlePipeline(proc, m)
	ctx := context.Background()

	cases := []*models.Candle{
		nil,
		{Time: 1000, Open: 100, High: 101, Low: 99, Close: 100},                                       // no symbol
		{Symbol: "BTCUSDT", Open: 100, High: 101, Low: 99, Close: 100},                                // no time
		{Symbol: "BTCUSDT", Time: 1000, Open: 0, High: 101, Low: 99, Close: 100},                      // zero open
		{Symbol: "BTCUSDT", Time: 1000, Open: 100, High: 99.5, Low: 99, Close: 100},                   // high below body
		{Symbol: "BTCUSDT", Time: 1000, Open: 100, High: 101, Low: 100.2, Close: 100.5},               // low above body
		{Symbol: "BTCUSDT", Time: 1000, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: -1},      // negative volume
	}
	for i, c := range cases {
		if err := p.Process(ctx, c); err == nil {
			t.Errorf("case %d: malformed candle accepted", i)
		}
	}
	if proc.count() != 0 {
		t.Errorf("downstream got %d candles, want 0", proc.count())
	}
	if m.errCount("pipeline_validate") != len(cases) {
		t.Errorf("pipeline_validate = %d, want %d", m.errCount("pipeline_validate"), len(cases))
	}
}

func TestPipelineDropsStaleCandles(t *testing.T) {
	proc := &stubProc{}
	m := newStubMetrics()
	p := NewCandlePipeline(proc, m)
	ctx := context.Background()

	if err := p.Process(ctx, valid(1000)); err != nil {
		t.Fatalf("first: %v", err)
	}
	// duplicate and older times are silently dropped
	if err := p.Process(ctx, valid(1000)); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := p.Process(ctx, valid(940)); err != nil {
		t.Fatalf("older: %v", err)
	}
	if err := p.Process(ctx, valid(1060)); err != nil {
		t.Fatalf("newer: %v", err)
	}

	if proc.count() != 2 {
		t.Errorf("downstream got %d candles, want 2", proc.count())
	}
	if m.errCount("pipeline_stale_candle") != 2 {
		t.Errorf("pipeline_stale_candle = %d, want 2", m.errCount("pipeline_stale_candle"))
	}
}

func TestPipelineTracksSymbolsIndependently(t *testing.T) {
	proc := &stubProc{}
	p := NewCandlePipeline(proc, newStubMetrics())
	ctx := context.Background()

	btc := valid(1000)
	eth := valid(1000)
	eth.Symbol = "ETHUSDT"

	_ = p.Process(ctx, btc)
	if err := p.Process(ctx, eth); err != nil {
		t.Fatalf("eth: %v", err)
	}
	if proc.count() != 2 {
		t.Errorf("downstream got %d candles, want 2", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &stubProc{failOn: true}
	m := newStubMetrics()
	p := NewCandlePipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), valid(1000)); err == nil {
		t.Fatal("expected downstream error")
	}
	if m.errCount("pipeline_process") != 1 {
		t.Errorf("pipeline_process = %d, want 1", m.errCount("pipeline_process"))
	}
	if len(p.bufCh) != 1 {
		t.Errorf("buffered %d candles, want 1", len(p.bufCh))
	}
}

func TestPipelineFlushDrainsBufferAsOneBatch(t *testing.T) {
	proc := &stubProc{failOn: true}
	m := newStubMetrics()
	p := NewCandlePipeline(proc, m, WithBufferSize(4))
	ctx := context.Background()

	_ = p.Process(ctx, valid(1000))
	_ = p.Process(ctx, valid(1060))
	if len(p.bufCh) != 2 {
		t.Fatalf("buffered %d candles, want 2", len(p.bufCh))
	}

	// downstream recovers; the flush hands everything buffered over at once
	proc.failOn = false
	first := <-p.bufCh
	if err := p.flushBatch(ctx, first); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(proc.batches) != 1 || len(proc.batches[0]) != 2 {
		t.Errorf("batches = %d (first len %d), want one batch of 2",
			len(proc.batches), len(proc.batches[0]))
	}
	if len(p.bufCh) != 0 {
		t.Errorf("buffer still holds %d candles, want 0", len(p.bufCh))
	}
}

func TestPipelineFlushRequeuesFailedBatch(t *testing.T) {
	proc := &stubProc{failOn: true}
	m := newStubMetrics()
	p := NewCandlePipeline(proc, m, WithBufferSize(4))
	ctx := context.Background()

	_ = p.Process(ctx, valid(1000))
	_ = p.Process(ctx, valid(1060))

	first := <-p.bufCh
	if err := p.flushBatch(ctx, first); err == nil {
		t.Fatal("expected flush error while downstream is failing")
	}
	if m.errCount("pipeline_flush") != 1 {
		t.Errorf("pipeline_flush = %d, want 1", m.errCount("pipeline_flush"))
	}
	if len(p.bufCh) != 2 {
		t.Errorf("requeued %d candles, want 2", len(p.bufCh))
	}
}
