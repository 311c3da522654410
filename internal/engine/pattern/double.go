package pattern

import "TradeLens/internal/domain/models"

const (
	// engulfingBodyFactor is how much larger the engulfing body must be
	// than the engulfed one.
	engulfingBodyFactor = 1.5
	// tweezerTolerance is the max high/low mismatch as a fraction of the
	// current candle's range.
	tweezerTolerance = 0.05
)

// matchDouble checks Engulfing, then Piercing Line / Dark Cloud Cover,
// then Tweezer Top/Bottom.
func matchDouble(prev, cur models.Candle) *match {
	if p := matchEngulfing(prev, cur); p != nil {
		return p
	}
	if p := matchPiercing(prev, cur); p != nil {
		return p
	}
	return matchTweezer(prev, cur)
}

func matchEngulfing(prev, cur models.Candle) *match {
	if prev.Body() <= 0 || cur.Body() < engulfingBodyFactor*prev.Body() {
		return nil
	}
	contains := cur.BodyLow() <= prev.BodyLow() && cur.BodyHigh() >= prev.BodyHigh()
	if !contains {
		return nil
	}
	if cur.IsBullish() && prev.IsBearish() {
		return &match{models.PatternBullishEngulfing, models.PatternBullish, models.ReliabilityHigh}
	}
	if cur.IsBearish() && prev.IsBullish() {
		return &match{models.PatternBearishEngulfing, models.PatternBearish, models.ReliabilityHigh}
	}
	return nil
}

// matchPiercing requires a gap beyond the prior candle's extreme and a
// close past the prior midpoint without fully reversing the prior body.
func matchPiercing(prev, cur models.Candle) *match {
	mid := prev.Midpoint()
	if prev.IsBearish() && cur.IsBullish() &&
		cur.Open < prev.Low && cur.Close > mid && cur.Close < prev.Open {
		return &match{models.PatternPiercingLine, models.PatternBullish, models.ReliabilityMedium}
	}
	if prev.IsBullish() && cur.IsBearish() &&
		cur.Open > prev.High && cur.Close < mid && cur.Close > prev.Open {
		return &match{models.PatternDarkCloudCover, models.PatternBearish, models.ReliabilityMedium}
	}
	return nil
}

func matchTweezer(prev, cur models.Candle) *match {
	tol := tweezerTolerance * cur.Range()
	if tol <= 0 {
		return nil
	}
	if prev.IsBullish() && cur.IsBearish() && abs(prev.High-cur.High) <= tol {
		return &match{models.PatternTweezerTop, models.PatternBearish, models.ReliabilityMedium}
	}
	if prev.IsBearish() && cur.IsBullish() && abs(prev.Low-cur.Low) <= tol {
		return &match{models.PatternTweezerBottom, models.PatternBullish, models.ReliabilityMedium}
	}
	return nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
