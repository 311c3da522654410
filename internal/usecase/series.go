package usecase

import (
	"sync"

	"TradeLens/internal/domain/models"
)

// SeriesBuffer keeps a rolling in-memory candle window per symbol. It is
// seeded from the REST backfill and advanced by the live stream, and is
// the candle source the analyzer reads from.
type SeriesBuffer struct {
	mu  sync.RWMutex
	max int
	m   map[string][]models.Candle
}

// NewSeriesBuffer creates a buffer keeping at most max candles per symbol.
func NewSeriesBuffer(max int) *SeriesBuffer {
	if max <= 0 {
		max = 500
	}
	return &SeriesBuffer{max: max, m: make(map[string][]models.Candle)}
}

// Seed replaces the symbol's window with historical candles, keeping only
// the most recent max entries. The input must be time-ascending.
func (b *SeriesBuffer) Seed(symbol string, candles []models.Candle) {
	if len(candles) > b.max {
		candles = candles[len(candles)-b.max:]
	}
	window := make([]models.Candle, len(candles))
	copy(window, candles)

	b.mu.Lock()
	b.m[symbol] = window
	b.mu.Unlock()
}

// Append adds a live candle to the symbol's window. Candles not strictly
// newer than the window tail are ignored.
func (b *SeriesBuffer) Append(c *models.Candle) {
	if c == nil || c.Symbol == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	window := b.m[c.Symbol]
	if n := len(window); n > 0 && c.Time <= window[n-1].Time {
		return
	}
	window = append(window, *c)
	if len(window) > b.max {
		window = window[len(window)-b.max:]
	}
	b.m[c.Symbol] = window
}

// Snapshot returns a copy of the symbol's current window, oldest first.
func (b *SeriesBuffer) Snapshot(symbol string) []models.Candle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	window := b.m[symbol]
	if len(window) == 0 {
		return nil
	}
	out := make([]models.Candle, len(window))
	copy(out, window)
	return out
}

// LastTime returns the open time of the symbol's newest candle, 0 if none.
func (b *SeriesBuffer) LastTime(symbol string) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	window := b.m[symbol]
	if len(window) == 0 {
		return 0
	}
	return window[len(window)-1].Time
}

// Symbols lists symbols with at least one buffered candle.
func (b *SeriesBuffer) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.m))
	for s, w := range b.m {
		if len(w) > 0 {
			out = append(out, s)
		}
	}
	return out
}
