// Package zone finds supply/demand price zones from impulsive moves and
// replays later candles against them to advance their lifecycle. All
// functions are pure: identical candles and config yield an identical
// zone set.
package zone

// Config enumerates every recognized zone-detection option.
type Config struct {
	// MinImpulseMagnitude is the minimum percent move of a valid impulse.
	MinImpulseMagnitude float64
	// MinImpulseCandles / MaxImpulseCandles bound the impulse run length.
	MinImpulseCandles int
	MaxImpulseCandles int
	// MaxBaseCandles bounds the consolidation window scanned backward
	// from the impulse start.
	MaxBaseCandles int
	// MinBodyRatio separates directional candles from consolidation when
	// backtracking the base.
	MinBodyRatio float64
	// MaxZones caps the number of zones returned, most recent first.
	MaxZones int
	// ZoneExtensionBars is display-only: how far an open zone's rectangle
	// extends past its last candle.
	ZoneExtensionBars int
	// MitigationThreshold is the percent of zone height price must
	// penetrate before the zone is mitigated.
	MitigationThreshold float64
	// WickMitigation switches breach detection from candle close to wick
	// extremes. The zero value keeps close-based mitigation, the default.
	WickMitigation bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinImpulseMagnitude: 0.3,
		MinImpulseCandles:   2,
		MaxImpulseCandles:   5,
		MaxBaseCandles:      3,
		MinBodyRatio:        0.4,
		MaxZones:            20,
		ZoneExtensionBars:   500,
		MitigationThreshold: 50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinImpulseMagnitude <= 0 {
		c.MinImpulseMagnitude = d.MinImpulseMagnitude
	}
	if c.MinImpulseCandles <= 0 {
		c.MinImpulseCandles = d.MinImpulseCandles
	}
	if c.MaxImpulseCandles <= 0 {
		c.MaxImpulseCandles = d.MaxImpulseCandles
	}
	if c.MaxBaseCandles <= 0 {
		c.MaxBaseCandles = d.MaxBaseCandles
	}
	if c.MinBodyRatio <= 0 {
		c.MinBodyRatio = d.MinBodyRatio
	}
	if c.MaxZones <= 0 {
		c.MaxZones = d.MaxZones
	}
	if c.ZoneExtensionBars <= 0 {
		c.ZoneExtensionBars = d.ZoneExtensionBars
	}
	if c.MitigationThreshold <= 0 {
		c.MitigationThreshold = d.MitigationThreshold
	}
	return c
}
