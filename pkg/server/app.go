package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeLens/internal/usecase"
	pkgcache "TradeLens/pkg/cache"
	pkgch "TradeLens/pkg/clickhouse"
	"TradeLens/pkg/config"
	xhttp "TradeLens/pkg/http"
	pkgkafka "TradeLens/pkg/kafka"
	applogger "TradeLens/pkg/logger"
	"TradeLens/pkg/queue"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.CandleCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	dispatcher  *usecase.SignalDispatcher
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	redisCache  *pkgcache.RedisCache
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.CandleCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	dispatcher *usecase.SignalDispatcher,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		collector:  collector,
		consumer:   consumer,
		kh:         kh,
		chClient:   chClient,
		dispatcher: dispatcher,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetRedisCache allows DI to inject the shared Redis connection. It may
// be nil when Redis is disabled.
func (a *App) SetRedisCache(rc *pkgcache.RedisCache) { a.redisCache = rc }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log

	// Aggregate error logs into a Redis-backed queue when Redis is on
	if a.redisCache != nil {
		a.setupLogCollector(l)
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	a.registerHealth()

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started",
		applogger.Strings("symbols", a.cfg.Binance.Symbols),
		applogger.String("timeframe", a.cfg.Binance.Timeframe))

	// With the kafka backend, candles reach ClickHouse through the consumer
	if a.cfg.Backend.Type == "kafka" && a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start signal dispatch loop
	if a.cfg.Dispatch.Enabled && a.dispatcher != nil {
		go a.dispatcher.Run(ctx)
		l.Info("signal dispatcher started",
			applogger.Duration("interval", a.cfg.Dispatch.Interval))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// setupLogCollector routes aggregated error logs to a Redis queue so a
// separate worker can forward them.
func (a *App) setupLogCollector(l *applogger.Logger) {
	pub := queue.NewRedisPublisher(l, a.redisCache.Client())
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})
}

// registerHealth exposes liveness and readiness probes.
func (a *App) registerHealth() {
	e := a.httpServer.Echo()
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		status := map[string]string{"stream": "down", "clickhouse": "down"}
		healthy := true
		if a.collector != nil && a.collector.IsConnected() {
			status["stream"] = "up"
		} else {
			healthy = false
		}
		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err == nil {
				status["clickhouse"] = "up"
			} else {
				healthy = false
			}
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, status)
	})
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.log
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close candle processor resources (publisher/storage)
	if a.collector != nil && a.collector.Processor() != nil {
		a.collector.Processor().Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	l.RemoveCollector()

	l.Info("shutdown complete")
	return nil
}
