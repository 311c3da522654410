package service

import (
	"context"

	"TradeLens/internal/domain/models"
)

// SignalExecutor is the out-of-process bot that receives signals over HTTP
// and decides on order placement. The engine never talks to an exchange.
type SignalExecutor interface {
	Execute(ctx context.Context, s *models.Signal) error
	Health(ctx context.Context) error
}
