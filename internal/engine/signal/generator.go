// Package signal synthesizes a composite trade setup from current price,
// the trend assessment, the live zone set, and ATR. A nil result is the
// normal "no setup" outcome, never an error.
package signal

import (
	"fmt"

	"TradeLens/internal/domain/models"
)

// Config enumerates the signal-generation options.
type Config struct {
	// MinValidityScore rejects setups scoring below it.
	MinValidityScore float64
	// StopATRMultiple extends the stop beyond the zone's far boundary.
	StopATRMultiple float64
	// ZoneBoundaryBuffer widens the in-zone test by this fraction of zone
	// height on each side.
	ZoneBoundaryBuffer float64
	// NearZonePercent treats price within this percent of a zone boundary
	// as near enough for a setup.
	NearZonePercent float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinValidityScore:   50,
		StopATRMultiple:    1.5,
		ZoneBoundaryBuffer: 0.10,
		NearZonePercent:    0.5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinValidityScore <= 0 {
		c.MinValidityScore = d.MinValidityScore
	}
	if c.StopATRMultiple <= 0 {
		c.StopATRMultiple = d.StopATRMultiple
	}
	if c.ZoneBoundaryBuffer <= 0 {
		c.ZoneBoundaryBuffer = d.ZoneBoundaryBuffer
	}
	if c.NearZonePercent <= 0 {
		c.NearZonePercent = d.NearZonePercent
	}
	return c
}

// maxStrengthScore is the top of the zone strength point scale.
const maxStrengthScore = 8

// Generate returns a BUY or SELL setup, or nil when no setup clears the
// validity threshold. Only active (non-mitigated) zones are considered.
func Generate(price float64, trend models.TrendAssessment, zones []models.PriceZone, atr float64, cfg Config) *models.Signal {
	cfg = cfg.withDefaults()
	if price <= 0 {
		return nil
	}

	demand := nearest(zones, models.ZoneDemand, price)
	supply := nearest(zones, models.ZoneSupply, price)

	if trend.Direction == models.TrendBullish && demand != nil && inPlay(*demand, price, cfg) {
		return build(models.SignalBuy, price, trend, *demand, atr, cfg)
	}
	if trend.Direction == models.TrendBearish && supply != nil && inPlay(*supply, price, cfg) {
		return build(models.SignalSell, price, trend, *supply, atr, cfg)
	}
	return nil
}

// nearest picks the active zone of the given type with the minimum
// absolute distance from either boundary to price.
func nearest(zones []models.PriceZone, zt models.ZoneType, price float64) *models.PriceZone {
	var best *models.PriceZone
	bestDist := 0.0
	for i := range zones {
		z := zones[i]
		if z.Type != zt || !z.IsActive() {
			continue
		}
		d := boundaryDistance(z, price)
		if best == nil || d < bestDist {
			best = &zones[i]
			bestDist = d
		}
	}
	return best
}

func boundaryDistance(z models.PriceZone, price float64) float64 {
	dTop := abs(price - z.Top)
	dBottom := abs(price - z.Bottom)
	if dBottom < dTop {
		return dBottom
	}
	return dTop
}

// inPlay reports price inside the zone with a boundary buffer, or within
// NearZonePercent of it.
func inPlay(z models.PriceZone, price float64, cfg Config) bool {
	buf := z.Height() * cfg.ZoneBoundaryBuffer
	if price >= z.Bottom-buf && price <= z.Top+buf {
		return true
	}
	return boundaryDistance(z, price) <= price*cfg.NearZonePercent/100
}

func build(st models.SignalType, price float64, trend models.TrendAssessment, z models.PriceZone, atr float64, cfg Config) *models.Signal {
	var stop, tp1, tp2, risk float64
	if st == models.SignalBuy {
		stop = z.Bottom - cfg.StopATRMultiple*atr
		risk = price - stop
		tp1 = price + 2*risk
		tp2 = price + 3*risk
	} else {
		stop = z.Top + cfg.StopATRMultiple*atr
		risk = stop - price
		tp1 = price - 2*risk
		tp2 = price - 3*risk
	}
	if risk <= 0 {
		return nil
	}
	rrr := (abs(tp1-price)) / risk

	inZone := z.Contains(price)
	score := validityScore(trend.Strength, z.StrengthScore, inZone, rrr)
	if score < cfg.MinValidityScore {
		return nil
	}

	return &models.Signal{
		Type:            st,
		EntryZone:       models.PriceRange{Low: z.Bottom, High: z.Top},
		StopLoss:        stop,
		TakeProfit1:     tp1,
		TakeProfit2:     tp2,
		ValidityScore:   score,
		RiskRewardRatio: rrr,
		TrendAligned:    true,
		ZoneConfluence:  inZone,
		Reason:          reason(st, trend, z, inZone),
	}
}

// validityScore combines trend alignment (15 + up to 15 by strength),
// zone quality (up to 25 by strength score), strict price-in-zone (25),
// and a risk/reward bucket (20/15/10/0), clamped to [0, 100].
func validityScore(trendStrength float64, zoneScore int, inZone bool, rrr float64) float64 {
	score := 15 + 15*trendStrength/100
	score += 25 * float64(zoneScore) / maxStrengthScore
	if inZone {
		score += 25
	}
	switch {
	case rrr >= 3:
		score += 20
	case rrr >= 2:
		score += 15
	case rrr >= 1.5:
		score += 10
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func reason(st models.SignalType, trend models.TrendAssessment, z models.PriceZone, inZone bool) string {
	proximity := "price near"
	if inZone {
		proximity = "price inside"
	}
	bias := "favoring long entries"
	if st == models.SignalSell {
		bias = "favoring short entries"
	}
	return fmt.Sprintf("%s trend (strength %.0f) aligned with %s %s zone; %s the zone; %s",
		trend.Direction, trend.Strength, z.Strength, z.Type, proximity, bias)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
