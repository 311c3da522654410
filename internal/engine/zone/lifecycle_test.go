package zone

import (
	"reflect"
	"testing"

	"TradeLens/internal/domain/models"
)

// extendRally appends post-rally candles to the scenario series. The zone
// under test spans [99.5, 100.5] with a 50% mitigation level at 100.0.
func extendRally(extra ...models.Candle) []models.Candle {
	return append(rallySeries(), extra...)
}

func TestUpdateIgnoresFormationCandles(t *testing.T) {
	cfg := DefaultConfig()
	series := rallySeries()
	zones := Update(Detect(series, cfg), series, cfg)
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	z := zones[0]
	if z.Status != models.ZoneFresh {
		t.Errorf("status = %s, want fresh (base and impulse candles are not touches)", z.Status)
	}
	if z.TouchCount != 0 {
		t.Errorf("touch count = %d, want 0", z.TouchCount)
	}
}

func TestUpdateTouchWithoutBreach(t *testing.T) {
	cfg := DefaultConfig()
	series := extendRally(
		mk(1720, 104.0, 104.2, 100.2, 100.3),
	)
	zones := Update(Detect(rallySeries(), cfg), series, cfg)
	z := zones[0]
	if z.Status != models.ZoneTested {
		t.Errorf("status = %s, want tested", z.Status)
	}
	if z.TouchCount != 1 {
		t.Errorf("touch count = %d, want 1", z.TouchCount)
	}
	if z.LastTouchTime != 1720 {
		t.Errorf("last touch = %d, want 1720", z.LastTouchTime)
	}
	if !z.IsActive() {
		t.Error("tested zone should still be active")
	}
}

func TestUpdateMitigatesOnDeepClose(t *testing.T) {
	cfg := DefaultConfig()
	series := extendRally(
		mk(1720, 104.0, 104.2, 100.2, 100.3),
		mk(1780, 100.3, 100.4, 99.0, 99.4),
	)
	zones := Update(Detect(rallySeries(), cfg), series, cfg)
	z := zones[0]
	if z.Status != models.ZoneMitigated {
		t.Fatalf("status = %s, want mitigated", z.Status)
	}
	if z.MitigatedAt != 1780 {
		t.Errorf("mitigated at %d, want 1780", z.MitigatedAt)
	}
	if z.EndTime != 1780 {
		t.Errorf("end time = %d, want 1780", z.EndTime)
	}
	if z.TouchCount != 1 {
		t.Errorf("touch count = %d, want 1 (breach candle does not count)", z.TouchCount)
	}
	if z.IsActive() {
		t.Error("mitigated zone must not be active")
	}
}

func TestUpdateIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	series := extendRally(
		mk(1720, 104.0, 104.2, 100.2, 100.3),
		mk(1780, 100.3, 100.4, 99.0, 99.4),
	)
	once := Update(Detect(rallySeries(), cfg), series, cfg)
	twice := Update(once, series, cfg)
	if !reflect.DeepEqual(once, twice) {
		t.Error("re-running Update over the same candles changed the zones")
	}
}

func TestUpdateMitigatedIsTerminal(t *testing.T) {
	cfg := DefaultConfig()
	series := extendRally(
		mk(1720, 104.0, 104.2, 100.2, 100.3),
		mk(1780, 100.3, 100.4, 99.0, 99.4),
	)
	mitigated := Update(Detect(rallySeries(), cfg), series, cfg)

	// Later candles back inside the zone must not revive or retouch it.
	more := append(series,
		mk(1840, 99.4, 100.4, 99.3, 100.2),
		mk(1900, 100.2, 100.6, 99.9, 100.4),
	)
	after := Update(mitigated, more, cfg)
	if !reflect.DeepEqual(mitigated, after) {
		t.Error("mitigated zone changed on subsequent updates")
	}
}

func TestUpdateWickPolicy(t *testing.T) {
	// The wick dips through the 100.0 mitigation level but the body closes
	// above it.
	series := extendRally(
		mk(1720, 104.0, 104.2, 99.8, 100.3),
	)

	closeCfg := DefaultConfig()
	zones := Update(Detect(rallySeries(), closeCfg), series, closeCfg)
	if got := zones[0].Status; got != models.ZoneTested {
		t.Errorf("close-based policy: status = %s, want tested", got)
	}

	wickCfg := DefaultConfig()
	wickCfg.WickMitigation = true
	zones = Update(Detect(rallySeries(), wickCfg), series, wickCfg)
	if got := zones[0].Status; got != models.ZoneMitigated {
		t.Errorf("wick-based policy: status = %s, want mitigated", got)
	}
}

func TestUpdateZeroConfigMatchesDefaults(t *testing.T) {
	if got, want := (Config{}).withDefaults(), DefaultConfig(); got != want {
		t.Fatalf("zero config resolves to %+v, want %+v", got, want)
	}

	// Wick dips through the mitigation level but the body closes above it:
	// under the default close-based policy the zone is only tested.
	series := extendRally(
		mk(1720, 104.0, 104.2, 99.8, 100.3),
	)
	zones := Update(Detect(rallySeries(), Config{}), series, Config{})
	if got := zones[0].Status; got != models.ZoneTested {
		t.Errorf("zero config: status = %s, want tested", got)
	}
}

func TestUpdateSupplyZoneLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	// Supply zone spans [99.5, 100.5]; mitigation level sits at 100.0 from
	// the top. A close above it mitigates.
	series := append(dropSeries(),
		mk(1720, 96.0, 99.8, 95.9, 99.7),
		mk(1780, 99.7, 100.8, 99.6, 100.6),
	)
	zones := Update(Detect(dropSeries(), cfg), series, cfg)
	z := zones[0]
	if z.Status != models.ZoneMitigated {
		t.Fatalf("status = %s, want mitigated", z.Status)
	}
	if z.TouchCount != 1 {
		t.Errorf("touch count = %d, want 1", z.TouchCount)
	}
	if z.MitigatedAt != 1780 {
		t.Errorf("mitigated at %d, want 1780", z.MitigatedAt)
	}
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	cfg := DefaultConfig()
	series := extendRally(
		mk(1720, 104.0, 104.2, 100.2, 100.3),
	)
	orig := Detect(rallySeries(), cfg)
	snapshot := make([]models.PriceZone, len(orig))
	copy(snapshot, orig)

	Update(orig, series, cfg)
	if !reflect.DeepEqual(orig, snapshot) {
		t.Error("Update mutated its input slice")
	}
}
