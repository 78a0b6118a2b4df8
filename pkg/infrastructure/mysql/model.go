package mysql

import (
	"time"

	"coincheck-bot/pkg/domain/model"
)

// Order 注文情報
type Order struct {
	ID           uint64
	OrderType    int
	Pair         string
	Amount       float64
	Rate         *float64
	StopLossRate *float64
	Status       int
	OrderedAt    time.Time
}

// NewOrder 生成
func NewOrder(org *model.Order, status model.OrderStatus) *Order {
	var orderType int
	switch org.Type {
	case model.Buy:
		orderType = 0
	case model.Sell:
		orderType = 1
	case model.MarketBuy:
		orderType = 2
	case model.MarketSell:
		orderType = 3
	}

	return &Order{
		ID:           org.ID,
		OrderType:    orderType,
		Pair:         org.Pair.String(),
		Amount:       round(org.Amount),
		Rate:         org.Rate,
		StopLossRate: org.StopLossRate,
		Status:       int(status),
		OrderedAt:    org.OpenAt,
	}
}

// ToDomainModel ドメインモデルに変換
func (o *Order) ToDomainModel() (*model.Order, error) {
	pair, err := model.ParseToCurrencyPair(o.Pair)
	if err != nil {
		return nil, err
	}

	var orderType model.OrderType
	switch o.OrderType {
	case 0:
		orderType = model.Buy
	case 1:
		orderType = model.Sell
	case 2:
		orderType = model.MarketBuy
	case 3:
		orderType = model.MarketSell
	}

	return &model.Order{
		ID:           o.ID,
		Type:         orderType,
		Pair:         *pair,
		Amount:       o.Amount,
		Rate:         o.Rate,
		StopLossRate: o.StopLossRate,
		OpenAt:       o.OrderedAt,
	}, nil
}

// Market 市場情報
type Market struct {
	ID         uint64
	Pair       string
	StoreRate  float64
	SellRate   float64
	BuyRate    float64
	SellVolume float64
	BuyVolume  float64
	RecordedAt time.Time
}

// NewMarket 生成
func NewMarket(org *model.Market) *Market {
	return &Market{
		Pair:       org.Pair.String(),
		StoreRate:  org.StoreRate,
		SellRate:   org.SellRate,
		BuyRate:    org.BuyRate,
		SellVolume: round(org.SellVolume),
		BuyVolume:  round(org.BuyVolume),
		RecordedAt: org.RecordedAt,
	}
}

// ToDomainModel ドメインモデルに変換
func (m *Market) ToDomainModel() (*model.Market, error) {
	pair, err := model.ParseToCurrencyPair(m.Pair)
	if err != nil {
		return nil, err
	}

	return &model.Market{
		Pair:       *pair,
		StoreRate:  m.StoreRate,
		SellRate:   m.SellRate,
		BuyRate:    m.BuyRate,
		SellVolume: m.SellVolume,
		BuyVolume:  m.BuyVolume,
		RecordedAt: m.RecordedAt,
	}, nil
}

func round(v float64) float64 {
	return float64(int(v*10000)) / 10000
}
