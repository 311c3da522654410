package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TradeLens/internal/domain/repository"
	domsvc "TradeLens/internal/domain/service"
	"TradeLens/internal/engine/signal"
	"TradeLens/internal/engine/zone"
	"TradeLens/internal/handler/api"
	mid "TradeLens/internal/middleware"
	internalrepo "TradeLens/internal/repository"
	"TradeLens/internal/service/binance"
	"TradeLens/internal/service/bot"
	icache "TradeLens/internal/service/cache"
	"TradeLens/internal/service/ratelimit"
	"TradeLens/internal/usecase"
	pkgcache "TradeLens/pkg/cache"
	pkgch "TradeLens/pkg/clickhouse"
	"TradeLens/pkg/config"
	xhttp "TradeLens/pkg/http"
	pkgkafka "TradeLens/pkg/kafka"
	applogger "TradeLens/pkg/logger"
	"TradeLens/pkg/metrics"
	"TradeLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".candles (symbol String, tf String, t DateTime, o Float64, h Float64, l Float64, c Float64, v Float64) ENGINE=MergeTree ORDER BY (symbol, tf, t)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCandleStore creates the ClickHouse candle repository.
func ProvideCandleStore(chClient *pkgch.Client, cfg *config.Config) *internalrepo.ClickHouseCandleStore {
	tf := repository.NormalizeTimeframe(cfg.Binance.Timeframe)
	return internalrepo.NewClickHouseCandleStore(chClient.DB(), cfg.ClickHouse.Database+".candles", tf)
}

// ProvideCandlePublisher creates the Kafka candle publisher.
func ProvideCandlePublisher(producer *pkgkafka.Producer, cfg *config.Config) *internalrepo.KafkaCandlePublisher {
	return internalrepo.NewKafkaCandlePublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	topic := cfg.Kafka.SignalTopic
	if topic == "" {
		topic = "tradelens.signals"
	}
	return internalrepo.NewKafkaSignalPublisher(producer, topic)
}

// ProvideKafkaCandlesHandler registers the handler for the candles topic.
func ProvideKafkaCandlesHandler(store *internalrepo.ClickHouseCandleStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaCandlesHandler {
	return usecase.NewKafkaCandlesHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideBinanceStream creates the Binance WebSocket candle stream.
func ProvideBinanceStream(cfg *config.Config) repository.CandleStream {
	return binance.New(
		cfg.Binance.WebSocketURL,
		cfg.Binance.Symbols,
		repository.NormalizeTimeframe(cfg.Binance.Timeframe),
		cfg.Binance.ReconnectDelay,
		cfg.Binance.PingInterval,
	)
}

// ProvideBackfiller creates the Binance REST history loader.
func ProvideBackfiller(cfg *config.Config) repository.CandleBackfiller {
	return binance.NewBackfiller(cfg.Binance.RestURL, 10*time.Second)
}

// ProvideSeriesBuffer creates the in-memory analysis window.
func ProvideSeriesBuffer(cfg *config.Config) *usecase.SeriesBuffer {
	return usecase.NewSeriesBuffer(cfg.Engine.AnalysisWindow)
}

// ProvideCandleProcessor creates the candle processor use case.
func ProvideCandleProcessor(
	pub *internalrepo.KafkaCandlePublisher,
	store *internalrepo.ClickHouseCandleStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.CandleProcessor {
	return usecase.NewCandleProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideCandleCollector creates the candle collector use case.
func ProvideCandleCollector(
	stream repository.CandleStream,
	backfiller repository.CandleBackfiller,
	processor *usecase.CandleProcessor,
	series *usecase.SeriesBuffer,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.CandleCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewCandlePipeline(processor, metrics,
		mid.WithBufferSize(2000),
	)
	return usecase.NewCandleCollector(
		stream,
		backfiller,
		processor,
		series,
		metrics,
		pipe,
		cfg.Binance.Symbols,
		repository.NormalizeTimeframe(cfg.Binance.Timeframe),
		cfg.Binance.BackfillLimit,
	)
}

// ProvideRedisCache connects to Redis, or returns nil when disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		host = cfg.Redis.Addr
		portStr = "6379"
	}
	port, _ := strconv.Atoi(portStr)

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideAnalysisCache selects the snapshot cache backend. With Redis on,
// snapshots go through a memory+redis layered cache so restarts keep warm
// results; otherwise a process-local TTL cache serves.
func ProvideAnalysisCache(rc *pkgcache.RedisCache, cfg *config.Config) icache.BytesCache {
	if rc != nil {
		return icache.NewServiceCache(pkgcache.NewLayeredCache(rc))
	}
	return icache.NewTTLCache()
}

// ProvideMarketAnalyzer creates the analysis use case.
func ProvideMarketAnalyzer(
	series *usecase.SeriesBuffer,
	cache icache.BytesCache,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.MarketAnalyzer {
	zoneCfg := zone.Config{
		MinImpulseMagnitude: cfg.Engine.MinImpulseMagnitude,
		MinImpulseCandles:   cfg.Engine.MinImpulseCandles,
		MaxImpulseCandles:   cfg.Engine.MaxImpulseCandles,
		MaxBaseCandles:      cfg.Engine.MaxBaseCandles,
		MinBodyRatio:        cfg.Engine.MinBodyRatio,
		MaxZones:            cfg.Engine.MaxZones,
		ZoneExtensionBars:   cfg.Engine.ZoneExtensionBars,
		MitigationThreshold: cfg.Engine.MitigationThreshold,
		WickMitigation:      cfg.Engine.WickMitigation,
	}
	sigCfg := signal.Config{MinValidityScore: cfg.Engine.MinValidityScore}
	return usecase.NewMarketAnalyzer(series, cache, cfg.Engine.CacheTTL, zoneCfg, sigCfg, metrics, nil)
}

// ProvideBotExecutor creates the bot webhook client, or nil when dispatch
// is disabled.
func ProvideBotExecutor(cfg *config.Config) domsvc.SignalExecutor {
	if !cfg.Dispatch.Enabled || cfg.Dispatch.BotWebhookURL == "" {
		return nil
	}
	return bot.New(cfg.Dispatch.BotWebhookURL, cfg.Dispatch.Timeout, cfg.Dispatch.MaxRetries)
}

// ProvideSignalDispatcher creates the periodic signal dispatcher.
func ProvideSignalDispatcher(
	analyzer *usecase.MarketAnalyzer,
	publisher repository.SignalPublisher,
	executor domsvc.SignalExecutor,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalDispatcher {
	return usecase.NewSignalDispatcher(
		analyzer,
		cfg.Binance.Symbols,
		repository.NormalizeTimeframe(cfg.Binance.Timeframe),
		publisher,
		executor,
		ratelimit.New(),
		cfg.Dispatch.RatePerMinute,
		cfg.Dispatch.Interval,
		logger,
	)
}

// ProvideCandlesUseCase creates the stored-candle query use case.
func ProvideCandlesUseCase(store *internalrepo.ClickHouseCandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	logger *applogger.Logger,
	analyzer *usecase.MarketAnalyzer,
	candles *usecase.CandlesUseCase,
) xhttp.Handler {
	return api.NewAnalysisHandler(logger, analyzer, candles)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.CandleCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaCandlesHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	dispatcher *usecase.SignalDispatcher,
	rc *pkgcache.RedisCache,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, logger, collector, consumer, kh, chClient, dispatcher)
	app.SetHTTPHandler(handler)
	app.SetRedisCache(rc)
	return app
}
