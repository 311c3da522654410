package usecase

import (
	"testing"

	"TradeLens/internal/domain/models"
)

func seriesCandle(t int64, close float64) models.Candle {
	return models.Candle{Symbol: "BTCUSDT", Time: t, Open: close, High: close + 0.1, Low: close - 0.1, Close: close, Volume: 1}
}

func TestSeriesBufferSeedTruncates(t *testing.T) {
	b := NewSeriesBuffer(3)
	history := []models.Candle{
		seriesCandle(100, 1), seriesCandle(160, 2), seriesCandle(220, 3),
		seriesCandle(280, 4), seriesCandle(340, 5),
	}
	b.Seed("BTCUSDT", history)

	got := b.Snapshot("BTCUSDT")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Time != 220 || got[2].Time != 340 {
		t.Errorf("kept window [%d..%d], want [220..340]", got[0].Time, got[2].Time)
	}
}

func TestSeriesBufferAppendOrdering(t *testing.T) {
	b := NewSeriesBuffer(10)
	b.Seed("BTCUSDT", []models.Candle{seriesCandle(100, 1)})

	c := seriesCandle(160, 2)
	b.Append(&c)
	stale := seriesCandle(160, 99)
	b.Append(&stale)
	older := seriesCandle(40, 99)
	b.Append(&older)

	got := b.Snapshot("BTCUSDT")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Close != 2 {
		t.Errorf("tail close = %v, stale candle was not ignored", got[1].Close)
	}
	if b.LastTime("BTCUSDT") != 160 {
		t.Errorf("LastTime = %d, want 160", b.LastTime("BTCUSDT"))
	}
}

func TestSeriesBufferAppendEvicts(t *testing.T) {
	b := NewSeriesBuffer(2)
	for i := int64(0); i < 4; i++ {
		c := seriesCandle(100+i*60, float64(i))
		b.Append(&c)
	}
	got := b.Snapshot("BTCUSDT")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Time != 220 {
		t.Errorf("oldest kept = %d, want 220", got[0].Time)
	}
}

func TestSeriesBufferSnapshotIsCopy(t *testing.T) {
	b := NewSeriesBuffer(10)
	b.Seed("BTCUSDT", []models.Candle{seriesCandle(100, 1)})

	snap := b.Snapshot("BTCUSDT")
	snap[0].Close = 42

	if got := b.Snapshot("BTCUSDT"); got[0].Close != 1 {
		t.Errorf("buffer mutated through snapshot: close = %v", got[0].Close)
	}
}

func TestSeriesBufferEmptySymbol(t *testing.T) {
	b := NewSeriesBuffer(10)
	if got := b.Snapshot("ETHUSDT"); got != nil {
		t.Errorf("snapshot of unknown symbol = %v, want nil", got)
	}
	if b.LastTime("ETHUSDT") != 0 {
		t.Errorf("LastTime of unknown symbol = %d, want 0", b.LastTime("ETHUSDT"))
	}
}
