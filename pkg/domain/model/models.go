package model

import (
	"fmt"
	"strings"
	"time"
)

// OrderType 注文種別
type OrderType string

// Side 注文種別から売買どちらかを判定
func (t OrderType) Side() OrderSide {
	if t == Buy || t == MarketBuy {
		return BuySide
	}
	return SellSide
}

// OrderSide 売買種別
type OrderSide int

func (s OrderSide) String() string {
	if s == BuySide {
		return "buy"
	}
	return "sell"
}

// OrderStatus 注文状態
type OrderStatus int

// LiquidityType 流動性種別
type LiquidityType string

// CurrencyType 通貨種別
type CurrencyType string

// CurrencyPair 通貨ペア
type CurrencyPair struct {
	Key        CurrencyType
	Settlement CurrencyType
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s_%s", p.Key, p.Settlement)
}

// ParseToCurrencyPair 文字列から通貨ペアを生成
func ParseToCurrencyPair(s string) (*CurrencyPair, error) {
	splited := strings.Split(s, "_")
	if len(splited) != 2 {
		return nil, fmt.Errorf("failed to parse string to CurrencyPair, string: %s", s)
	}
	return &CurrencyPair{
		Key:        CurrencyType(splited[0]),
		Settlement: CurrencyType(splited[1]),
	}, nil
}

// Ticker ティッカー情報
type Ticker struct {
	Pair      CurrencyPair
	Last      float64
	Bid       float64
	Ask       float64
	High      float64
	Low       float64
	Volume    float64
	Timestamp time.Time
}

// BookEntry 板の1行（レートと数量）
type BookEntry struct {
	Rate   float64
	Amount float64
}

// OrderBooks 板情報
type OrderBooks struct {
	Pair CurrencyPair
	Asks []BookEntry
	Bids []BookEntry
}

// OrderRate 注文レート
type OrderRate struct {
	Pair CurrencyPair
	Side OrderSide
	Rate float64
}

// Balance 通貨ごとの残高
type Balance struct {
	Amount   float64
	Reserved float64
}

// NewOrder 注文（新規）
type NewOrder struct {
	Type            OrderType
	Pair            CurrencyPair
	Amount          *float64
	Rate            *float64
	MarketBuyAmount *float64
	StopLossRate    *float64
}

// Order 注文（登録済み）
type Order struct {
	ID           uint64
	Type         OrderType
	Pair         CurrencyPair
	Amount       float64
	Rate         *float64
	StopLossRate *float64
	OpenAt       time.Time
}

// Contract 約定情報
type Contract struct {
	OrderID     uint64
	Rate        float64
	Currency1   CurrencyType
	Fund1       float64
	Currency2   CurrencyType
	Fund2       float64
	FeeCurrency CurrencyType
	Fee         float64
	Liquidity   LiquidityType
	Side        OrderSide
}

// TradeHistory 取引履歴
type TradeHistory struct {
	ID     uint64
	Pair   CurrencyPair
	Rate   float64
	Amount float64
	Side   OrderSide
	Time   time.Time
}

// Market 市場情報のスナップショット
type Market struct {
	Pair       CurrencyPair
	StoreRate  float64
	SellRate   float64
	BuyRate    float64
	SellVolume float64
	BuyVolume  float64
	RecordedAt time.Time
}
