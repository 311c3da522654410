// Package pattern matches candlestick formations against geometric ratio
// rules. Each check claims at most one pattern, in fixed precedence order:
// single-candle first, then two-candle, then three-candle. All scan
// variants share the same matcher and differ only in which indices they
// iterate.
package pattern

import "TradeLens/internal/domain/models"

// Scan walks the full series and collects every detection, oldest first.
func Scan(candles []models.Candle) []models.DetectedPattern {
	var out []models.DetectedPattern
	for i := range candles {
		if p := detectAt(candles, i); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ScanRecent restricts matching to the most recent n candles.
func ScanRecent(candles []models.Candle, n int) []models.DetectedPattern {
	if n <= 0 || n >= len(candles) {
		return Scan(candles)
	}
	var out []models.DetectedPattern
	for i := len(candles) - n; i < len(candles); i++ {
		if p := detectAt(candles, i); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Latest checks only the last candle position; used for real-time
// incremental detection.
func Latest(candles []models.Candle) *models.DetectedPattern {
	if len(candles) == 0 {
		return nil
	}
	return detectAt(candles, len(candles)-1)
}

// detectAt returns the highest-precedence pattern ending at index i, or nil.
func detectAt(candles []models.Candle, i int) *models.DetectedPattern {
	if i < 0 || i >= len(candles) {
		return nil
	}
	if p := matchSingle(candles[i]); p != nil {
		return finish(p, candles, i, 1)
	}
	if i >= 1 {
		if p := matchDouble(candles[i-1], candles[i]); p != nil {
			return finish(p, candles, i, 2)
		}
	}
	if i >= 2 {
		if p := matchTriple(candles[i-2], candles[i-1], candles[i]); p != nil {
			return finish(p, candles, i, 3)
		}
	}
	return nil
}

// match carries the identity of a formation before it is anchored to an index.
type match struct {
	kind        models.PatternKind
	signal      models.PatternSignal
	reliability models.Reliability
}

func finish(m *match, candles []models.Candle, i, span int) *models.DetectedPattern {
	snap := make([]models.Candle, span)
	copy(snap, candles[i-span+1:i+1])
	return &models.DetectedPattern{
		Time:        candles[i].Time,
		Index:       i,
		Kind:        m.kind,
		Signal:      m.signal,
		Reliability: m.reliability,
		Candles:     snap,
	}
}
