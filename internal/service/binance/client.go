package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a CandleStream backed by the Binance kline WebSocket.
// Only closed klines are forwarded downstream.
type Client struct {
	websocketURL   string
	symbols        []string
	timeframe      drepo.Timeframe
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new Binance CandleStream.
func New(websocketURL string, symbols []string, tf drepo.Timeframe, reconnectDelay, pingInterval time.Duration) drepo.CandleStream {
	return &Client{
		websocketURL:   websocketURL,
		symbols:        symbols,
		timeframe:      tf,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("binance: connected")
	return nil
}

// Subscribe subscribes to the kline stream of every configured symbol.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("binance not connected")
	}
	params := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		params = append(params, fmt.Sprintf("%s@kline_%s", strings.ToLower(s), c.timeframe))
	}
	msg := map[string]interface{}{"method": "SUBSCRIBE", "params": params, "id": 1}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe klines: %w", err)
	}
	log.Printf("binance: subscribed %d kline streams", len(params))
	return nil
}

type wsKline struct {
	Start  int64  `json:"t"` // ms
	Symbol string `json:"s"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Close  string `json:"c"`
	Volume string `json:"v"`
	Closed bool   `json:"x"`
}

type wsMessage struct {
	Event string  `json:"e"`
	Kline wsKline `json:"k"`
}

// Read streams closed Candle events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Candle, <-chan error) {
	candles := make(chan *models.Candle, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(candles)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-kline frames (subscribe acks etc.)
					continue
				}
				if m.Event != "kline" || !m.Kline.Closed {
					continue
				}
				candle, err := m.Kline.toCandle()
				if err != nil {
					continue
				}
				select {
				case candles <- candle:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return candles, errs
}

func (k wsKline) toCandle() (*models.Candle, error) {
	o, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parse open: %w", err)
	}
	h, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parse high: %w", err)
	}
	l, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parse low: %w", err)
	}
	cl, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parse close: %w", err)
	}
	v, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}
	return &models.Candle{
		Symbol: k.Symbol,
		Time:   k.Start / 1000,
		Open:   o,
		High:   h,
		Low:    l,
		Close:  cl,
		Volume: v,
	}, nil
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
