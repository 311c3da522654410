package bot

import (
	"context"
	"fmt"
	"time"

	"TradeLens/internal/domain/models"
	domsvc "TradeLens/internal/domain/service"
	xhttp "TradeLens/pkg/http"
)

// Client delivers trade signals to an external trading bot webhook.
type Client struct {
	webhookURL string
	client     *xhttp.Client
	attempts   int
}

// New builds a bot webhook client with timeout and retry settings.
func New(webhookURL string, timeout time.Duration, attempts int) domsvc.SignalExecutor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if attempts <= 0 {
		attempts = 3
	}
	return &Client{
		webhookURL: webhookURL,
		client:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts:   attempts,
	}
}

// Execute posts the signal as JSON to the webhook, retrying transient
// failures with a linear backoff. Response bodies are ignored; any 2xx
// status counts as delivered.
func (c *Client) Execute(ctx context.Context, s *models.Signal) error {
	if c.webhookURL == "" {
		return fmt.Errorf("bot webhook url not configured")
	}
	if s == nil {
		return fmt.Errorf("signal is nil")
	}

	var err error
	for i := 1; i <= c.attempts; i++ {
		err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodPost,
			URL:    c.webhookURL,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
			Body: s,
		}, nil)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("deliver signal %s %s: %w", s.Symbol, s.Type, err)
}

// Health performs a lightweight reachability probe against the webhook host.
func (c *Client) Health(ctx context.Context) error {
	if c.webhookURL == "" {
		return fmt.Errorf("bot webhook url not configured")
	}
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.webhookURL,
	}, nil)
	if err != nil {
		return fmt.Errorf("bot health: %w", err)
	}
	return nil
}
