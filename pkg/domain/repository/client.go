package repository

import (
	"time"

	"coincheck-bot/pkg/domain/model"
)

// RateRepository レート用リポジトリ
type RateRepository interface {
	AddOrderRate(*model.OrderRate) error
	GetCurrentRate(pair *model.CurrencyPair, side model.OrderSide) *float64
	GetRateHistory(pair *model.CurrencyPair, side model.OrderSide) []float64
	GetHistorySizeMax() int
}

// OrderRepository 注文用リポジトリ
type OrderRepository interface {
	UpsertOrders([]model.Order) error
	GetOpenOrders() ([]model.Order, error)
	UpdateStatus(orderID uint64, status model.OrderStatus) error
}

// MarketRepository 市場情報用リポジトリ
type MarketRepository interface {
	AddMarket(*model.Market) error
	GetMarkets(pair *model.CurrencyPair, duration *time.Duration) ([]model.Market, error)
}
