package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	pkgkafka "TradeLens/pkg/kafka"
)

// KafkaCandlesHandler consumes candle messages and writes them to storage.
// It closes the loop when the backend runs in kafka mode: the producer side
// publishes closed candles, this side lands them in ClickHouse.
type KafkaCandlesHandler struct {
	topic   string
	storage drepo.CandleWriter
	metrics drepo.Metrics
}

func NewKafkaCandlesHandler(topic string, storage drepo.CandleWriter, metrics drepo.Metrics) *KafkaCandlesHandler {
	return &KafkaCandlesHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaCandlesHandler) Topic() string { return h.topic }

// Handle decodes one candle message and stores it.
func (h *KafkaCandlesHandler) Handle(ctx context.Context, b []byte) error {
	var c models.Candle
	if err := json.Unmarshal(b, &c); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if c.Time > 1e11 { // ms
		c.Time = c.Time / 1000
	}
	// E2E latency from candle close to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(c.Time, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &c)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordCandleStored("clickhouse", c.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaCandlesHandler)(nil)
