package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	pkgkafka "TradeLens/pkg/kafka"
)

// ClickHouseCandleStore implements CandleWriter and CandleStore for ClickHouse.
type ClickHouseCandleStore struct {
	db    *sql.DB
	table string
	tf    drepo.Timeframe
}

// NewClickHouseCandleStore creates ClickHouse candle storage.
func NewClickHouseCandleStore(db *sql.DB, table string, tf drepo.Timeframe) *ClickHouseCandleStore {
	return &ClickHouseCandleStore{db: db, table: table, tf: tf}
}

func (s *ClickHouseCandleStore) Store(ctx context.Context, c *models.Candle) error {
	q := fmt.Sprintf("INSERT INTO %s (symbol, tf, t, o, h, l, c, v) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		c.Symbol,
		string(s.tf),
		time.Unix(c.Time, 0),
		c.Open,
		c.High,
		c.Low,
		c.Close,
		c.Volume,
	)
	return err
}

func (s *ClickHouseCandleStore) StoreBatch(ctx context.Context, candles []*models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, c := range candles[start:end] {
			if c == nil || c.Symbol == "" || c.Time == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				c.Symbol,
				string(s.tf),
				time.Unix(c.Time, 0),
				c.Open,
				c.High,
				c.Low,
				c.Close,
				c.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, tf, t, o, h, l, c, v) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// GetCandles returns candles in [from, to], oldest first.
func (s *ClickHouseCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf drepo.Timeframe) ([]models.Candle, error) {
	q := fmt.Sprintf("SELECT symbol, t, o, h, l, c, v FROM %s WHERE symbol = ? AND tf = ? AND t >= ? AND t <= ? ORDER BY t ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandles(rows)
}

// GetLatestNCandles returns the most recent n candles, oldest first.
func (s *ClickHouseCandleStore) GetLatestNCandles(ctx context.Context, symbol string, n int, tf drepo.Timeframe) ([]models.Candle, error) {
	q := fmt.Sprintf("SELECT symbol, t, o, h, l, c, v FROM %s WHERE symbol = ? AND tf = ? ORDER BY t DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candles, err := scanCandles(rows)
	if err != nil {
		return nil, err
	}
	// Flip DESC query order back to chronological.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

func scanCandles(rows *sql.Rows) ([]models.Candle, error) {
	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		var ts time.Time
		if err := rows.Scan(&c.Symbol, &ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Time = ts.Unix()
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

func (s *ClickHouseCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseCandleStore) Close() error {
	return nil // pool managed by pkg
}

// KafkaCandlePublisher implements CandleWriter over a Kafka topic.
type KafkaCandlePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaCandlePublisher creates a Kafka candle publisher.
func NewKafkaCandlePublisher(producer *pkgkafka.Producer, topic string) *KafkaCandlePublisher {
	return &KafkaCandlePublisher{producer: producer, topic: topic}
}

func (p *KafkaCandlePublisher) Store(ctx context.Context, c *models.Candle) error {
	return p.producer.Publish(ctx, p.topic, []byte(c.Symbol), c)
}

func (p *KafkaCandlePublisher) StoreBatch(ctx context.Context, candles []*models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(candles))
	for i, c := range candles {
		msgs[i] = pkgkafka.Message{Key: []byte(c.Symbol), Value: c}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaCandlePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
