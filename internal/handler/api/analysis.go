package api

import (
	"net/http"
	"time"

	models "TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	imetrics "TradeLens/internal/service/metrics"
	"TradeLens/internal/service/ratelimit"
	"TradeLens/internal/usecase"
	xhttp "TradeLens/pkg/http"
	xlogger "TradeLens/pkg/logger"
	xutil "TradeLens/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the engine over Echo-based HTTP handlers
// following Clean Architecture.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.MarketAnalyzer
	candles  *usecase.CandlesUseCase
	rl       *ratelimit.Limiter
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer *usecase.MarketAnalyzer, candles *usecase.CandlesUseCase) *AnalysisHandler {
	imetrics.Register()
	return &AnalysisHandler{logger: logger, analyzer: analyzer, candles: candles, rl: ratelimit.New()}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/zones", h.Zones)
	g.GET("/patterns", h.Patterns)
	g.GET("/trend", h.Trend)
	g.GET("/signal", h.Signal)
	g.GET("/overlay", h.Overlay)
	g.GET("/candles", h.Candles)
}

func (h *AnalysisHandler) Analysis(c echo.Context) error {
	start := time.Now()
	endpoint := "analysis"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":analysis", 5, 2) {
		h.logger.Warn("analysis rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Zones(c echo.Context) error {
	start := time.Now()
	endpoint := "zones"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ZonesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("zones usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	zones := res.Zones
	if req.Active {
		zones = res.ActiveZones()
	}
	return xhttp.SuccessResponse(c, &models.ZonesResponse{
		Symbol:         res.Symbol,
		Timeframe:      res.Timeframe,
		LastCandleTime: res.LastCandleTime,
		Zones:          zones,
	})
}

func (h *AnalysisHandler) Patterns(c echo.Context) error {
	start := time.Now()
	endpoint := "patterns"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PatternsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("patterns usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	patterns := res.Patterns
	if req.Recent > 0 {
		cutoff := res.LastCandleTime - int64(req.Recent-1)*tf.Seconds()
		recent := make([]models.DetectedPattern, 0, len(patterns))
		for _, p := range patterns {
			if p.Time >= cutoff {
				recent = append(recent, p)
			}
		}
		patterns = recent
	}
	return xhttp.SuccessResponse(c, &models.PatternsResponse{
		Symbol:         res.Symbol,
		Timeframe:      res.Timeframe,
		LastCandleTime: res.LastCandleTime,
		Patterns:       patterns,
		Latest:         res.LatestPattern,
	})
}

func (h *AnalysisHandler) Trend(c echo.Context) error {
	start := time.Now()
	endpoint := "trend"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("trend usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.TrendResponse{
		Symbol:         res.Symbol,
		Timeframe:      res.Timeframe,
		LastCandleTime: res.LastCandleTime,
		Trend:          res.Trend,
		ATR:            res.ATR,
	})
}

func (h *AnalysisHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", 5, 2) {
		h.logger.Warn("signal rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.SignalResponse{
		Symbol:         res.Symbol,
		Timeframe:      res.Timeframe,
		LastCandleTime: res.LastCandleTime,
		Signal:         res.Signal,
	})
}

func (h *AnalysisHandler) Overlay(c echo.Context) error {
	start := time.Now()
	endpoint := "overlay"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.OverlayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	ov, err := h.analyzer.Overlay(c.Request().Context(), usecase.AnalyzeParams{Symbol: req.Symbol, Timeframe: tf, Window: req.N})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("overlay usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ov)
}

func (h *AnalysisHandler) Candles(c echo.Context) error {
	start := time.Now()
	endpoint := "candles"
	defer func() { imetrics.AnalysisLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	to := xhttp.ParseTimeDefault(req.To, time.Now())
	from := xhttp.ParseTimeDefault(req.From, to.Add(-time.Duration(int64(req.N)*tf.Seconds())*time.Second))
	from, to = xutil.AlignFromTo(from, to, string(tf))

	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     req.N,
	})
	if err != nil {
		imetrics.AnalysisErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
