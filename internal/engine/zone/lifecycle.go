package zone

import "TradeLens/internal/domain/models"

// Update replays candles strictly after each zone's StartTime and advances
// its lifecycle. The input slice is not mutated; updated copies are
// returned in the same order. Already-mitigated zones pass through
// unchanged, so re-running Update is idempotent.
func Update(zones []models.PriceZone, candles []models.Candle, cfg Config) []models.PriceZone {
	cfg = cfg.withDefaults()
	out := make([]models.PriceZone, len(zones))
	for i, z := range zones {
		out[i] = updateOne(z, candles, cfg)
	}
	return out
}

func updateOne(z models.PriceZone, candles []models.Candle, cfg Config) models.PriceZone {
	if z.Status == models.ZoneMitigated {
		return z
	}

	level := mitigationLevel(z, cfg.MitigationThreshold)

	// Replay starts after the formation window: the base candles and the
	// impulse run itself are not touches of the zone they created.
	formationEnd := z.StartTime
	if n := len(z.BaseCandles); n > 0 {
		formationEnd = z.BaseCandles[n-1].Time
	}
	impulseLeft := z.Impulse.CandleCount

	for _, c := range candles {
		if c.Time <= formationEnd {
			continue
		}
		if impulseLeft > 0 {
			impulseLeft--
			continue
		}
		// A touch is any range intersection with [bottom, top].
		if c.Low > z.Top || c.High < z.Bottom {
			continue
		}

		if breached(z, c, level, !cfg.WickMitigation) {
			z.Status = models.ZoneMitigated
			z.MitigatedAt = c.Time
			z.EndTime = c.Time
			return z
		}

		if z.Status == models.ZoneFresh {
			z.Status = models.ZoneTested
		}
		z.TouchCount++
		z.LastTouchTime = c.Time
	}
	return z
}

// mitigationLevel is the penetration price beyond which a zone is spent:
// threshold% of height above the bottom for demand, below the top for supply.
func mitigationLevel(z models.PriceZone, thresholdPct float64) float64 {
	depth := z.Height() * thresholdPct / 100
	if z.Type == models.ZoneDemand {
		return z.Bottom + depth
	}
	return z.Top - depth
}

func breached(z models.PriceZone, c models.Candle, level float64, bodyClose bool) bool {
	if z.Type == models.ZoneDemand {
		p := c.Close
		if !bodyClose {
			p = c.Low
		}
		return p < level
	}
	p := c.Close
	if !bodyClose {
		p = c.High
	}
	return p > level
}
