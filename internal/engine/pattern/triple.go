package pattern

import "TradeLens/internal/domain/models"

const (
	// starBodyFactor caps the middle candle body relative to both outer bodies.
	starBodyFactor = 0.5
	// marchingBodyFloor is the minimum body size for Soldiers/Crows as a
	// fraction of the three-candle average range.
	marchingBodyFloor = 0.3
)

// matchTriple checks Morning/Evening Star, then Three White Soldiers /
// Three Black Crows.
func matchTriple(a, b, c models.Candle) *match {
	if p := matchStar(a, b, c); p != nil {
		return p
	}
	return matchMarching(a, b, c)
}

// matchStar requires a small middle candle and a third candle closing past
// the first candle's midpoint in the reversal direction. A price gap
// between candles 1 and 2 upgrades reliability to high.
func matchStar(a, b, c models.Candle) *match {
	if b.Body() > starBodyFactor*a.Body() || b.Body() > starBodyFactor*c.Body() {
		return nil
	}
	mid := a.Midpoint()

	if a.IsBearish() && c.IsBullish() && c.Close > mid {
		rel := models.ReliabilityMedium
		if b.BodyHigh() < a.BodyLow() {
			rel = models.ReliabilityHigh
		}
		return &match{models.PatternMorningStar, models.PatternBullish, rel}
	}
	if a.IsBullish() && c.IsBearish() && c.Close < mid {
		rel := models.ReliabilityMedium
		if b.BodyLow() > a.BodyHigh() {
			rel = models.ReliabilityHigh
		}
		return &match{models.PatternEveningStar, models.PatternBearish, rel}
	}
	return nil
}

// matchMarching requires three same-direction candles, each closing beyond
// the previous close, each opening inside the previous body, each with a
// body of at least 30% of the three-candle average range.
func matchMarching(a, b, c models.Candle) *match {
	avgRange := (a.Range() + b.Range() + c.Range()) / 3
	if avgRange <= 0 {
		return nil
	}
	floor := marchingBodyFloor * avgRange
	if a.Body() < floor || b.Body() < floor || c.Body() < floor {
		return nil
	}

	opensInside := func(prev, cur models.Candle) bool {
		return cur.Open >= prev.BodyLow() && cur.Open <= prev.BodyHigh()
	}

	if a.IsBullish() && b.IsBullish() && c.IsBullish() &&
		b.Close > a.Close && c.Close > b.Close &&
		opensInside(a, b) && opensInside(b, c) {
		return &match{models.PatternThreeSoldiers, models.PatternBullish, models.ReliabilityHigh}
	}
	if a.IsBearish() && b.IsBearish() && c.IsBearish() &&
		b.Close < a.Close && c.Close < b.Close &&
		opensInside(a, b) && opensInside(b, c) {
		return &match{models.PatternThreeCrows, models.PatternBearish, models.ReliabilityHigh}
	}
	return nil
}
