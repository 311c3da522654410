package usecase

import (
	"context"
	"time"

	drepo "TradeLens/internal/domain/repository"
	domsvc "TradeLens/internal/domain/service"
	imetrics "TradeLens/internal/service/metrics"
	"TradeLens/internal/service/ratelimit"
	applogger "TradeLens/pkg/logger"
)

// SignalDispatcher periodically re-analyzes every tracked symbol and
// delivers newly generated signals to Kafka and the bot webhook. A signal
// is delivered at most once per closed candle.
type SignalDispatcher struct {
	analyzer  *MarketAnalyzer
	symbols   []string
	timeframe drepo.Timeframe

	publisher  drepo.SignalPublisher
	executor   domsvc.SignalExecutor
	limiter    *ratelimit.Limiter
	ratePerMin int

	interval time.Duration
	log      *applogger.Logger

	// lastSent maps symbol to the candle time of its last delivered signal.
	lastSent map[string]int64
}

// NewSignalDispatcher creates a dispatcher. Publisher and executor may each
// be nil; delivery is skipped for the missing sink.
func NewSignalDispatcher(
	analyzer *MarketAnalyzer,
	symbols []string,
	tf drepo.Timeframe,
	publisher drepo.SignalPublisher,
	executor domsvc.SignalExecutor,
	limiter *ratelimit.Limiter,
	ratePerMin int,
	interval time.Duration,
	log *applogger.Logger,
) *SignalDispatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if ratePerMin <= 0 {
		ratePerMin = 10
	}
	return &SignalDispatcher{
		analyzer:   analyzer,
		symbols:    symbols,
		timeframe:  tf,
		publisher:  publisher,
		executor:   executor,
		limiter:    limiter,
		ratePerMin: ratePerMin,
		interval:   interval,
		log:        log,
		lastSent:   make(map[string]int64),
	}
}

// Run blocks, dispatching on a fixed interval until the context is done.
func (d *SignalDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatch(ctx)
		}
	}
}

func (d *SignalDispatcher) dispatch(ctx context.Context) {
	for _, symbol := range d.symbols {
		analysis, err := d.analyzer.Analyze(ctx, AnalyzeParams{Symbol: symbol, Timeframe: d.timeframe})
		if err != nil {
			d.log.Warn("dispatch analyze failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
			continue
		}
		for _, zt := range []string{"supply", "demand"} {
			n := 0
			for _, z := range analysis.Zones {
				if string(z.Type) == zt && z.IsActive() {
					n++
				}
			}
			imetrics.ActiveZones.WithLabelValues(symbol, zt).Set(float64(n))
		}

		sig := analysis.Signal
		if sig == nil {
			continue
		}
		if d.lastSent[symbol] == analysis.LastCandleTime {
			continue
		}
		if d.limiter != nil && !d.limiter.Allow("signals", float64(d.ratePerMin), float64(d.ratePerMin)/60.0) {
			d.log.Warn("signal delivery rate limited", applogger.String("symbol", symbol))
			continue
		}

		delivered := false
		if d.publisher != nil {
			if err := d.publisher.Publish(ctx, sig); err != nil {
				d.log.Error("signal publish failed",
					applogger.String("symbol", symbol),
					applogger.Error(err))
			} else {
				delivered = true
			}
		}
		if d.executor != nil {
			if err := d.executor.Execute(ctx, sig); err != nil {
				d.log.Error("signal webhook delivery failed",
					applogger.String("symbol", symbol),
					applogger.Error(err))
			} else {
				delivered = true
			}
		}
		if delivered {
			d.lastSent[symbol] = analysis.LastCandleTime
			imetrics.SignalsDispatched.WithLabelValues(symbol, string(sig.Type)).Inc()
			d.log.Info("signal dispatched",
				applogger.String("symbol", symbol),
				applogger.String("type", string(sig.Type)),
				applogger.Any("validity", sig.ValidityScore))
		}
	}
}
