package exchange

import (
	"context"

	"coincheck-bot/pkg/domain/model"
)

// PublicClient 認証なしで利用できる取引所クライアント
type PublicClient interface {
	GetTicker(ctx context.Context, pair *model.CurrencyPair) (*model.Ticker, error)
	GetOrderBooks(ctx context.Context, pair *model.CurrencyPair) (*model.OrderBooks, error)
	GetOrderRate(ctx context.Context, pair *model.CurrencyPair, side model.OrderSide) (*model.OrderRate, error)
	GetRate(ctx context.Context, pair *model.CurrencyPair) (float64, error)
	GetTrades(ctx context.Context, pair *model.CurrencyPair, limit int) ([]model.TradeHistory, error)
}

// Client 認証付きの取引所クライアント
type Client interface {
	PublicClient

	GetBalance(ctx context.Context) (map[model.CurrencyType]model.Balance, error)
	GetOpenOrders(ctx context.Context) ([]model.Order, error)
	GetContracts(ctx context.Context) ([]model.Contract, error)
	PostOrder(ctx context.Context, o *model.NewOrder) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uint64) (uint64, error)
	GetCancelStatus(ctx context.Context, id uint64) (bool, error)
}

// StreamClient 取引履歴ストリーム用クライアント
type StreamClient interface {
	SubscribeTradeHistory(ctx context.Context, pair *model.CurrencyPair, handler func(*model.TradeHistory) error) error
}
