package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	"TradeLens/internal/engine/indicator"
	"TradeLens/internal/engine/pattern"
	"TradeLens/internal/engine/projection"
	"TradeLens/internal/engine/signal"
	"TradeLens/internal/engine/trend"
	"TradeLens/internal/engine/zone"
	icache "TradeLens/internal/service/cache"
	pkgcache "TradeLens/pkg/cache"
)

// MarketAnalyzer runs the full deterministic analysis over a symbol's
// candle window. Results are cached keyed by the last candle time, so
// repeated requests between candle closes reuse the same snapshot.
type MarketAnalyzer struct {
	series   *SeriesBuffer
	cache    icache.BytesCache
	cacheTTL time.Duration
	zoneCfg  zone.Config
	sigCfg   signal.Config
	metrics  drepo.Metrics
	now      func() time.Time
}

// NewMarketAnalyzer creates a MarketAnalyzer. A nil cache disables snapshot
// reuse; a nil clock falls back to time.Now.
func NewMarketAnalyzer(
	series *SeriesBuffer,
	cache icache.BytesCache,
	cacheTTL time.Duration,
	zoneCfg zone.Config,
	sigCfg signal.Config,
	metrics drepo.Metrics,
	clock func() time.Time,
) *MarketAnalyzer {
	if clock == nil {
		clock = time.Now
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if zoneCfg.ZoneExtensionBars <= 0 {
		zoneCfg.ZoneExtensionBars = zone.DefaultConfig().ZoneExtensionBars
	}
	return &MarketAnalyzer{
		series:   series,
		cache:    cache,
		cacheTTL: cacheTTL,
		zoneCfg:  zoneCfg,
		sigCfg:   sigCfg,
		metrics:  metrics,
		now:      clock,
	}
}

type AnalyzeParams struct {
	Symbol    string
	Timeframe drepo.Timeframe
	// Window limits analysis to the most recent N candles (0 = whole buffer).
	Window int
}

// Analyze produces a full MarketAnalysis snapshot for the symbol.
func (a *MarketAnalyzer) Analyze(ctx context.Context, p AnalyzeParams) (*models.MarketAnalysis, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	candles := a.series.Snapshot(p.Symbol)
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles buffered for %s", p.Symbol)
	}
	if p.Window > 0 && len(candles) > p.Window {
		candles = candles[len(candles)-p.Window:]
	}
	last := candles[len(candles)-1]

	key := pkgcache.GenerateKeyWithParams("analysis", p.Symbol, p.Timeframe, p.Window, last.Time)
	if cached := a.fromCache(key); cached != nil {
		return cached, nil
	}

	start := a.now()
	analysis := a.run(candles, p)
	if a.metrics != nil {
		a.metrics.RecordLatency("analysis", a.now().Sub(start).Seconds())
	}

	a.toCache(key, analysis)
	return analysis, nil
}

func (a *MarketAnalyzer) run(candles []models.Candle, p AnalyzeParams) *models.MarketAnalysis {
	last := candles[len(candles)-1]

	zones := zone.Detect(candles, a.zoneCfg)
	zones = zone.Update(zones, candles, a.zoneCfg)

	patterns := pattern.Scan(candles)
	latest := pattern.Latest(candles)

	assessment := trend.Analyze(candles, string(p.Timeframe))
	atr := indicator.ATR(candles, indicator.DefaultATRPeriod)

	sig := signal.Generate(last.Close, assessment, zones, atr, a.sigCfg)
	if sig != nil {
		sig.Symbol = p.Symbol
		sig.Time = last.Time
	}

	return &models.MarketAnalysis{
		Symbol:         p.Symbol,
		Timeframe:      string(p.Timeframe),
		GeneratedAt:    a.now().Unix(),
		LastCandleTime: last.Time,
		CandleCount:    len(candles),
		Zones:          zones,
		Patterns:       patterns,
		LatestPattern:  latest,
		Trend:          assessment,
		ATR:            atr,
		Signal:         sig,
	}
}

// Overlay renders the chart projection for a fresh or cached analysis.
func (a *MarketAnalyzer) Overlay(ctx context.Context, p AnalyzeParams) (*projection.Overlay, error) {
	analysis, err := a.Analyze(ctx, p)
	if err != nil {
		return nil, err
	}
	ov := projection.Project(analysis, p.Timeframe.Seconds(), a.zoneCfg.ZoneExtensionBars)
	return &ov, nil
}

func (a *MarketAnalyzer) fromCache(key string) *models.MarketAnalysis {
	if a.cache == nil {
		return nil
	}
	b, ok, err := a.cache.GetBytes(key)
	if err != nil || !ok {
		return nil
	}
	var m models.MarketAnalysis
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return &m
}

func (a *MarketAnalyzer) toCache(key string, m *models.MarketAnalysis) {
	if a.cache == nil {
		return
	}
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = a.cache.SetBytes(key, b, a.cacheTTL)
}
