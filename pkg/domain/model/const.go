package model

const (
	// Buy 指値買い注文
	Buy OrderType = "buy"
	// Sell 指値売り注文
	Sell OrderType = "sell"
	// MarketBuy 成行買い注文
	MarketBuy OrderType = "market_buy"
	// MarketSell 成行売り注文
	MarketSell OrderType = "market_sell"
)

const (
	// BuySide 買い
	BuySide OrderSide = iota
	// SellSide 売り
	SellSide
)

const (
	// Open 未決済
	Open OrderStatus = iota
	// Closed 決済済み
	Closed
)

const (
	// JPY 日本円
	JPY CurrencyType = "jpy"
	// BTC ビットコイン
	BTC CurrencyType = "btc"
	// ETC イーサリアムクラシック
	ETC CurrencyType = "etc"
	// FCT ファクトム
	FCT CurrencyType = "fct"
	// MONA モナコイン
	MONA CurrencyType = "mona"
)

var (
	// BtcJpy BTC/JPY
	BtcJpy = CurrencyPair{Key: BTC, Settlement: JPY}
	// EtcJpy ETC/JPY
	EtcJpy = CurrencyPair{Key: ETC, Settlement: JPY}
	// FctJpy FCT/JPY
	FctJpy = CurrencyPair{Key: FCT, Settlement: JPY}
	// MonaJpy MONA/JPY
	MonaJpy = CurrencyPair{Key: MONA, Settlement: JPY}
)

const (
	// Taker Taker
	Taker LiquidityType = "T"
	// Maker Maker
	Maker LiquidityType = "M"
)
