// Injector implementation for the providers in this package, laid out the
// way wire emits it. Hand-maintained: rerun go generate after changing
// provider signatures and diff against this file.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"TradeLens/pkg/config"
	"TradeLens/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	metrics := ProvideMetrics()
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	clickHouseCandleStore := ProvideCandleStore(client, cfg)
	kafkaCandlePublisher := ProvideCandlePublisher(producer, cfg)
	signalPublisher := ProvideSignalPublisher(producer, cfg)
	candleStream := ProvideBinanceStream(cfg)
	candleBackfiller := ProvideBackfiller(cfg)
	redisCache, err := ProvideRedisCache(cfg)
	if err != nil {
		return nil, err
	}
	seriesBuffer := ProvideSeriesBuffer(cfg)
	candleProcessor := ProvideCandleProcessor(kafkaCandlePublisher, clickHouseCandleStore, metrics, cfg)
	candleCollector := ProvideCandleCollector(candleStream, candleBackfiller, candleProcessor, seriesBuffer, metrics, cfg)
	bytesCache := ProvideAnalysisCache(redisCache, cfg)
	marketAnalyzer := ProvideMarketAnalyzer(seriesBuffer, bytesCache, metrics, cfg)
	candlesUseCase := ProvideCandlesUseCase(clickHouseCandleStore)
	kafkaCandlesHandler := ProvideKafkaCandlesHandler(clickHouseCandleStore, metrics, cfg)
	signalExecutor := ProvideBotExecutor(cfg)
	signalDispatcher := ProvideSignalDispatcher(marketAnalyzer, signalPublisher, signalExecutor, logger, cfg)
	handler := ProvideHTTPHandler(logger, marketAnalyzer, candlesUseCase)
	app := ProvideApp(cfg, logger, candleCollector, consumer, kafkaCandlesHandler, client, handler, signalDispatcher, redisCache)
	return app, nil
}
