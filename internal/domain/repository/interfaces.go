package repository

import (
	"context"
	"time"

	"TradeLens/internal/domain/models"
)

// CandleStream supplies live closed candles from a market data feed.
type CandleStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Candle, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// CandleBackfiller loads recent historical candles over REST.
type CandleBackfiller interface {
	FetchHistory(ctx context.Context, symbol string, tf Timeframe, limit int) ([]models.Candle, error)
}

// CandleWriter accepts candles for storage or forwarding.
type CandleWriter interface {
	Store(ctx context.Context, c *models.Candle) error
	StoreBatch(ctx context.Context, candles []*models.Candle) error
	Close() error
}

// CandleStore provides read access to stored candles for analysis.
type CandleStore interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.Candle, error)
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Candle, error)
	Health(ctx context.Context) error
}

// SignalPublisher emits generated signals to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.Signal) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordCandleStored(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
