package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"coincheck-bot/pkg/domain/model"
)

// Rate レート
type Rate struct {
	Datetime      string
	OrderBuyRate  float64
	OrderSellRate float64
}

// NewRate レートを生成
func NewRate(v []string) (*Rate, error) {
	if len(v) != 3 {
		return nil, fmt.Errorf("csv is not 3 columns, [%d columns]", len(v))
	}
	buyRate, err := strconv.ParseFloat(v[1], 64)
	if err != nil {
		return nil, err
	}
	sellRate, err := strconv.ParseFloat(v[2], 64)
	if err != nil {
		return nil, err
	}

	return &Rate{
		Datetime:      v[0],
		OrderBuyRate:  buyRate,
		OrderSellRate: sellRate,
	}, nil
}

// ExchangeStub CSVのレート系列を再生する取引所スタブ
type ExchangeStub struct {
	rateReader *csv.Reader
	slippage   float64
	rate       Rate
	orders     []model.Order
	statuses   map[uint64]model.OrderStatus
	canceled   map[uint64]bool
	contracts  []model.Contract
	balances   map[model.CurrencyType]float64
}

// NewExchangeStub 生成
func NewExchangeStub(r io.Reader, slippage float64) (*ExchangeStub, error) {
	reader := csv.NewReader(r)

	// ヘッダを読み飛ばす
	_, err := reader.Read()
	if err != nil {
		return nil, err
	}

	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	rate, err := NewRate(record)
	if err != nil {
		return nil, err
	}

	return &ExchangeStub{
		rateReader: reader,
		slippage:   slippage,
		rate:       *rate,
		orders:     []model.Order{},
		statuses:   map[uint64]model.OrderStatus{},
		canceled:   map[uint64]bool{},
		contracts:  []model.Contract{},
		balances:   map[model.CurrencyType]float64{model.JPY: 100000},
	}, nil
}

// GetTicker ティッカー情報を取得
func (e *ExchangeStub) GetTicker(ctx context.Context, pair *model.CurrencyPair) (*model.Ticker, error) {
	return &model.Ticker{
		Pair:      *pair,
		Last:      e.rate.OrderSellRate,
		Bid:       e.rate.OrderSellRate,
		Ask:       e.rate.OrderBuyRate,
		High:      e.rate.OrderBuyRate,
		Low:       e.rate.OrderSellRate,
		Volume:    0,
		Timestamp: time.Now(),
	}, nil
}

// GetOrderBooks 板情報を取得
func (e *ExchangeStub) GetOrderBooks(ctx context.Context, pair *model.CurrencyPair) (*model.OrderBooks, error) {
	return &model.OrderBooks{
		Pair: *pair,
		Asks: []model.BookEntry{{Rate: e.rate.OrderBuyRate, Amount: 1}},
		Bids: []model.BookEntry{{Rate: e.rate.OrderSellRate, Amount: 1}},
	}, nil
}

// GetOrderRate 取引所のレートを取得
func (e *ExchangeStub) GetOrderRate(ctx context.Context, pair *model.CurrencyPair, side model.OrderSide) (*model.OrderRate, error) {
	if side == model.BuySide {
		return &model.OrderRate{
			Pair: *pair,
			Side: side,
			Rate: e.rate.OrderBuyRate,
		}, nil
	}
	return &model.OrderRate{
		Pair: *pair,
		Side: side,
		Rate: e.rate.OrderSellRate,
	}, nil
}

// GetRate 販売所のレートを取得
func (e *ExchangeStub) GetRate(ctx context.Context, pair *model.CurrencyPair) (float64, error) {
	return (e.rate.OrderBuyRate + e.rate.OrderSellRate) / 2, nil
}

// GetTrades 全体の取引履歴を取得
func (e *ExchangeStub) GetTrades(ctx context.Context, pair *model.CurrencyPair, limit int) ([]model.TradeHistory, error) {
	return []model.TradeHistory{}, nil
}

// GetBalance 残高を取得
func (e *ExchangeStub) GetBalance(ctx context.Context) (map[model.CurrencyType]model.Balance, error) {
	m := map[model.CurrencyType]model.Balance{}
	for currency, amount := range e.balances {
		m[currency] = model.Balance{Amount: amount}
	}
	return m, nil
}

// GetOpenOrders 未決済の注文を取得
func (e *ExchangeStub) GetOpenOrders(ctx context.Context) ([]model.Order, error) {
	oo := []model.Order{}
	for _, o := range e.orders {
		if e.statuses[o.ID] == model.Open {
			oo = append(oo, o)
		}
	}
	return oo, nil
}

// GetContracts 約定情報を取得
func (e *ExchangeStub) GetContracts(ctx context.Context) ([]model.Contract, error) {
	return e.contracts, nil
}

// PostOrder 注文を送信
func (e *ExchangeStub) PostOrder(ctx context.Context, o *model.NewOrder) (*model.Order, error) {
	amount := 0.0
	if o.Type == model.MarketBuy {
		amount = *o.MarketBuyAmount
	} else {
		amount = *o.Amount
	}

	order := model.Order{
		ID:           uint64(len(e.orders) + 1),
		Type:         o.Type,
		Pair:         o.Pair,
		Amount:       amount,
		Rate:         o.Rate,
		StopLossRate: o.StopLossRate,
		OpenAt:       time.Now(),
	}
	e.orders = append(e.orders, order)
	e.statuses[order.ID] = model.Open

	if order.Type == model.MarketBuy || order.Type == model.MarketSell {
		e.closeOrder(order.ID)
	}

	return &order, nil
}

// DeleteOrder 注文をキャンセル
func (e *ExchangeStub) DeleteOrder(ctx context.Context, id uint64) (uint64, error) {
	if id == 0 || id > uint64(len(e.orders)) {
		return 0, fmt.Errorf("order not found, id: %d", id)
	}
	if e.statuses[id] != model.Open {
		return 0, fmt.Errorf("order is not open, id: %d", id)
	}
	e.statuses[id] = model.Closed
	e.canceled[id] = true
	return id, nil
}

// GetCancelStatus キャンセル状態を取得
func (e *ExchangeStub) GetCancelStatus(ctx context.Context, id uint64) (bool, error) {
	return e.canceled[id], nil
}

// NextStep 次のレートに進める
func (e *ExchangeStub) NextStep() bool {
	record, err := e.rateReader.Read()
	if err != nil {
		return false
	}
	rate, err := NewRate(record)
	if err != nil {
		return false
	}
	e.rate = *rate

	for _, o := range e.orders {
		e.closeOrder(o.ID)
	}

	return true
}

func (e *ExchangeStub) closeOrder(orderID uint64) {
	o := &e.orders[orderID-1]
	if e.statuses[o.ID] != model.Open {
		return
	}

	var contract *model.Contract
	switch o.Type {
	case model.Buy:
		if o.Rate != nil && (*o.Rate) >= e.rate.OrderBuyRate {
			e.statuses[o.ID] = model.Closed
		} else if o.StopLossRate != nil && (*o.StopLossRate) <= e.rate.OrderBuyRate {
			e.statuses[o.ID] = model.Closed
		}
		if e.statuses[o.ID] == model.Closed {
			contract = &model.Contract{
				OrderID:   o.ID,
				Rate:      e.rate.OrderBuyRate,
				Currency1: o.Pair.Key,
				Fund1:     o.Amount,
				Currency2: o.Pair.Settlement,
				Fund2:     -o.Amount * e.rate.OrderBuyRate,
				Liquidity: model.Taker,
				Side:      model.BuySide,
			}
		}
	case model.MarketBuy:
		e.statuses[o.ID] = model.Closed
		rate := e.rate.OrderBuyRate * (1.00 + e.slippage)
		contract = &model.Contract{
			OrderID:   o.ID,
			Rate:      rate,
			Currency1: o.Pair.Key,
			Fund1:     o.Amount / rate,
			Currency2: o.Pair.Settlement,
			Fund2:     -o.Amount,
			Liquidity: model.Taker,
			Side:      model.BuySide,
		}
	case model.Sell:
		if o.Rate != nil && (*o.Rate) <= e.rate.OrderSellRate {
			e.statuses[o.ID] = model.Closed
		} else if o.StopLossRate != nil && (*o.StopLossRate) >= e.rate.OrderSellRate {
			e.statuses[o.ID] = model.Closed
		}
		if e.statuses[o.ID] == model.Closed {
			contract = &model.Contract{
				OrderID:   o.ID,
				Rate:      e.rate.OrderSellRate,
				Currency1: o.Pair.Settlement,
				Fund1:     o.Amount * e.rate.OrderSellRate,
				Currency2: o.Pair.Key,
				Fund2:     -o.Amount,
				Liquidity: model.Taker,
				Side:      model.SellSide,
			}
		}
	case model.MarketSell:
		e.statuses[o.ID] = model.Closed
		rate := e.rate.OrderSellRate * (1.00 - e.slippage)
		contract = &model.Contract{
			OrderID:   o.ID,
			Rate:      rate,
			Currency1: o.Pair.Settlement,
			Fund1:     o.Amount * rate,
			Currency2: o.Pair.Key,
			Fund2:     -o.Amount,
			Liquidity: model.Taker,
			Side:      model.SellSide,
		}
	}

	if contract != nil {
		e.contracts = append(e.contracts, *contract)
		e.balances[contract.Currency1] += contract.Fund1
		e.balances[contract.Currency2] += contract.Fund2
	}
}
