package zone

import (
	"sort"

	"TradeLens/internal/domain/models"
)

const (
	// minCandles below which detection returns nothing.
	minCandles = 10
	// impulseBodyFraction is the body/range floor for an impulse candle.
	impulseBodyFraction = 0.5
	// dedupWindowSeconds is the max start-time distance (10 hours) within
	// which two same-type overlapping zones count as duplicates.
	dedupWindowSeconds = 10 * 3600
	// maxImbalanceRatio caps the magnitude/height quality ratio.
	maxImbalanceRatio = 10
)

// Detect returns up to cfg.MaxZones non-overlapping supply/demand zones,
// most recent first. Fewer than 10 candles yields an empty result; no
// qualifying impulse yields zero zones, not an error.
func Detect(candles []models.Candle, cfg Config) []models.PriceZone {
	cfg = cfg.withDefaults()
	if len(candles) < minCandles {
		return nil
	}

	lastClose := candles[len(candles)-1].Close

	var candidates []models.PriceZone
	for start := 1; start+cfg.MinImpulseCandles <= len(candles); start++ {
		for _, dir := range []models.TrendDirection{models.TrendBullish, models.TrendBearish} {
			// A run's interior is not a fresh start.
			if isImpulseCandle(candles[start-1], dir) {
				continue
			}
			imp, ok := scanImpulse(candles, start, dir, cfg)
			if !ok {
				continue
			}
			z := buildZone(candles, start, imp, cfg, lastClose)
			candidates = append(candidates, z)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Strongest first, with deterministic tie-breaks.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.StrengthScore != b.StrengthScore {
			return a.StrengthScore > b.StrengthScore
		}
		if a.StartTime != b.StartTime {
			return a.StartTime > b.StartTime
		}
		return a.Top > b.Top
	})

	var kept []models.PriceZone
	for _, cand := range candidates {
		if !duplicatesKept(cand, kept) {
			kept = append(kept, cand)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime > kept[j].StartTime
	})
	if len(kept) > cfg.MaxZones {
		kept = kept[:cfg.MaxZones]
	}
	return kept
}

type impulse struct {
	direction models.TrendDirection
	start     int
	end       int
	magnitude float64
}

func isImpulseCandle(c models.Candle, dir models.TrendDirection) bool {
	if c.BodyRatio() <= impulseBodyFraction {
		return false
	}
	if dir == models.TrendBullish {
		return c.IsBullish()
	}
	return c.IsBearish()
}

// scanImpulse walks forward from start counting consecutive strong
// same-direction candles. A meaningfully opposite candle before
// MinImpulseCandles aborts the scan; after it, the impulse is complete.
func scanImpulse(candles []models.Candle, start int, dir models.TrendDirection, cfg Config) (impulse, bool) {
	count := 0
	end := start
	for j := start; j < len(candles) && j-start < cfg.MaxImpulseCandles; j++ {
		c := candles[j]
		if isImpulseCandle(c, dir) {
			count++
			end = j
			continue
		}
		if isImpulseCandle(c, opposite(dir)) && count < cfg.MinImpulseCandles {
			return impulse{}, false
		}
		break
	}
	if count < cfg.MinImpulseCandles {
		return impulse{}, false
	}

	startPrice := candles[start].Open
	endPrice := candles[end].Close
	if startPrice <= 0 {
		return impulse{}, false
	}
	magnitude := abs(endPrice-startPrice) / startPrice * 100
	if magnitude < cfg.MinImpulseMagnitude {
		return impulse{}, false
	}
	return impulse{direction: dir, start: start, end: end, magnitude: magnitude}, true
}

// buildZone backtracks the base window behind an impulse and derives the
// zone's bounds and quality metrics.
func buildZone(candles []models.Candle, start int, imp impulse, cfg Config, lastClose float64) models.PriceZone {
	baseStart := start - 1
	baseEnd := start - 1
	qualified := 0
	for j := start - 1; j >= 0 && start-1-j < cfg.MaxBaseCandles; j-- {
		if !isBaseCandle(candles[j], imp.direction, cfg.MinBodyRatio) {
			break
		}
		baseStart = j
		qualified++
	}
	if qualified == 0 {
		// Fall back to the single candle immediately preceding the impulse.
		baseStart = start - 1
	}

	base := make([]models.Candle, baseEnd-baseStart+1)
	copy(base, candles[baseStart:baseEnd+1])

	top := base[0].High
	bottom := base[0].Low
	for _, c := range base[1:] {
		if c.High > top {
			top = c.High
		}
		if c.Low < bottom {
			bottom = c.Low
		}
	}

	zType := models.ZoneDemand
	if imp.direction == models.TrendBearish {
		zType = models.ZoneSupply
	}

	heightPct := 0.0
	if bottom > 0 {
		heightPct = (top - bottom) / bottom * 100
	}
	imbalance := 0.0
	if heightPct > 0 {
		imbalance = imp.magnitude / heightPct
		if imbalance > maxImbalanceRatio {
			imbalance = maxImbalanceRatio
		}
	}

	candleCount := imp.end - imp.start + 1
	score := imbalancePoints(imbalance) + magnitudePoints(imp.magnitude) + speedPoints(candleCount)

	return models.PriceZone{
		Type:          zType,
		Status:        models.ZoneFresh,
		Strength:      bucketStrength(score),
		StrengthScore: score,
		Top:           top,
		Bottom:        bottom,
		StartTime:     base[0].Time,
		BaseCandles:   base,
		Impulse: models.ImpulseMove{
			Direction:        imp.direction,
			StartPrice:       candles[imp.start].Open,
			EndPrice:         candles[imp.end].Close,
			MagnitudePercent: imp.magnitude,
			CandleCount:      candleCount,
		},
		ImbalanceRatio: imbalance,
		ProximityScore: proximityScore(top, bottom, lastClose),
	}
}

// isBaseCandle reports consolidation: opposite direction to the impulse or
// a body ratio below the configured floor.
func isBaseCandle(c models.Candle, impulseDir models.TrendDirection, minBodyRatio float64) bool {
	if c.BodyRatio() < minBodyRatio {
		return true
	}
	if impulseDir == models.TrendBullish {
		return c.IsBearish()
	}
	return c.IsBullish()
}

func imbalancePoints(ratio float64) int {
	switch {
	case ratio >= 8:
		return 3
	case ratio >= 5:
		return 2
	case ratio >= 2:
		return 1
	default:
		return 0
	}
}

func magnitudePoints(magnitude float64) int {
	switch {
	case magnitude >= 2.0:
		return 3
	case magnitude >= 1.0:
		return 2
	case magnitude >= 0.5:
		return 1
	default:
		return 0
	}
}

// speedPoints: fewer impulse candles is stronger.
func speedPoints(candleCount int) int {
	switch {
	case candleCount <= 2:
		return 2
	case candleCount <= 3:
		return 1
	default:
		return 0
	}
}

func bucketStrength(score int) models.ZoneStrength {
	switch {
	case score >= 7:
		return models.StrengthExtreme
	case score >= 5:
		return models.StrengthStrong
	case score >= 3:
		return models.StrengthModerate
	default:
		return models.StrengthWeak
	}
}

// proximityScore rates how close the latest close sits to the zone's
// midpoint, 100 at the midpoint decaying to 0 at a 10% price distance.
func proximityScore(top, bottom, lastClose float64) float64 {
	mid := (top + bottom) / 2
	if mid <= 0 || lastClose <= 0 {
		return 0
	}
	distPct := abs(lastClose-mid) / mid * 100
	score := 100 - distPct*10
	if score < 0 {
		return 0
	}
	return score
}

// duplicatesKept reports whether cand shares both a time window and a
// price-range overlap with an already-kept zone of the same type.
func duplicatesKept(cand models.PriceZone, kept []models.PriceZone) bool {
	for _, k := range kept {
		if k.Type != cand.Type {
			continue
		}
		dt := cand.StartTime - k.StartTime
		if dt < 0 {
			dt = -dt
		}
		if dt <= dedupWindowSeconds && cand.Overlaps(k) {
			return true
		}
	}
	return false
}

func opposite(dir models.TrendDirection) models.TrendDirection {
	if dir == models.TrendBullish {
		return models.TrendBearish
	}
	return models.TrendBullish
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
