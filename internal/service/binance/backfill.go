package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	xhttp "TradeLens/pkg/http"
)

const defaultBackfillLimit = 500

// Backfiller loads recent klines over the Binance REST API so analysis has
// a full window before the first live candle closes.
type Backfiller struct {
	restURL string
	client  *xhttp.Client
}

// NewBackfiller creates a REST kline backfiller.
func NewBackfiller(restURL string, timeout time.Duration) *Backfiller {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Backfiller{
		restURL: restURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// FetchHistory returns up to limit closed candles, oldest first.
func (b *Backfiller) FetchHistory(ctx context.Context, symbol string, tf drepo.Timeframe, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = defaultBackfillLimit
	}

	// Each kline is a positional array: open time (ms), then OHLCV as strings.
	var rows [][]json.RawMessage
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    b.restURL + "/api/v3/klines",
		QueryParams: map[string][]string{
			"symbol":   {symbol},
			"interval": {string(tf)},
			"limit":    {strconv.Itoa(limit)},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("backfill %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseKlineRow(row, symbol)
		if err != nil {
			return nil, fmt.Errorf("backfill parse: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseKlineRow(row []json.RawMessage, symbol string) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("kline row has %d fields, want >= 6", len(row))
	}

	var openMs int64
	if err := json.Unmarshal(row[0], &openMs); err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		var s string
		if err := json.Unmarshal(row[i], &s); err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i-1] = f
	}

	return models.Candle{
		Symbol: symbol,
		Time:   openMs / 1000,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
