package coincheck

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"coincheck-bot/pkg/domain/model"
)

// NewOrder 注文（新規）
type NewOrder struct {
	Pair            string `json:"pair"`
	OrderType       string `json:"order_type"`
	Rate            string `json:"rate,omitempty"`
	Amount          string `json:"amount,omitempty"`
	MarketBuyAmount string `json:"market_buy_amount,omitempty"`
	StopLossRate    string `json:"stop_loss_rate,omitempty"`
}

// RegisteredOrder 注文（登録済み）
type RegisteredOrder struct {
	Success         bool      `json:"success"`
	ID              uint64    `json:"id"`
	Rate            string    `json:"rate"`
	Amount          string    `json:"amount"`
	OrderType       string    `json:"order_type"`
	MarketBuyAmount string    `json:"market_buy_amount"`
	StopLossRate    string    `json:"stop_loss_rate"`
	Pair            string    `json:"pair"`
	CreatedAt       time.Time `json:"created_at"`
}

// OpenOrder 注文（未決済）
type OpenOrder struct {
	ID                     uint64    `json:"id"`
	OrderType              string    `json:"order_type"`
	Rate                   string    `json:"rate"`
	Pair                   string    `json:"pair"`
	PendingAmount          string    `json:"pending_amount"`
	PendingMarketBuyAmount string    `json:"pending_market_buy_amount"`
	StopLossRate           string    `json:"stop_loss_rate"`
	CreatedAt              time.Time `json:"created_at"`
}

// OrderTransaction 取引履歴
type OrderTransaction struct {
	ID          uint64            `json:"id"`
	OrderID     uint64            `json:"order_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Funds       map[string]string `json:"funds"`
	PairStr     string            `json:"pair"`
	Rate        string            `json:"rate"`
	FeeCurrency string            `json:"fee_currency"`
	Fee         string            `json:"fee"`
	Liquidity   string            `json:"liquidity"`
	Side        string            `json:"side"`
}

// Balance 残高
type Balance struct {
	Success      bool   `json:"success"`
	Jpy          string `json:"jpy"`
	Btc          string `json:"btc"`
	Etc          string `json:"etc"`
	Fct          string `json:"fct"`
	Mona         string `json:"mona"`
	JpyReserved  string `json:"jpy_reserved"`
	BtcReserved  string `json:"btc_reserved"`
	EtcReserved  string `json:"etc_reserved"`
	FctReserved  string `json:"fct_reserved"`
	MonaReserved string `json:"mona_reserved"`
}

// toMap 通貨ごとの残高に変換
func (b *Balance) toMap() map[model.CurrencyType]model.Balance {
	entries := []struct {
		currency model.CurrencyType
		amount   string
		reserved string
	}{
		{model.JPY, b.Jpy, b.JpyReserved},
		{model.BTC, b.Btc, b.BtcReserved},
		{model.ETC, b.Etc, b.EtcReserved},
		{model.FCT, b.Fct, b.FctReserved},
		{model.MONA, b.Mona, b.MonaReserved},
	}

	m := map[model.CurrencyType]model.Balance{}
	for _, e := range entries {
		m[e.currency] = model.Balance{
			Amount:   toFloat64(e.amount, 0),
			Reserved: toFloat64(e.reserved, 0),
		}
	}
	return m
}

// Ticker ティッカー情報
type Ticker struct {
	Last      float64 `json:"last"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// OrderBooks 板情報。レートが数値、数量が文字列の混在配列で届く
type OrderBooks struct {
	Asks [][]interface{} `json:"asks"`
	Bids [][]interface{} `json:"bids"`
}

// Trade 取引履歴（REST）
type Trade struct {
	ID        uint64    `json:"id"`
	Amount    string    `json:"amount"`
	Rate      string    `json:"rate"`
	Pair      string    `json:"pair"`
	OrderType string    `json:"order_type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTradeHistory Webソケットのメッセージから取引履歴を生成
func NewTradeHistory(b []byte) (h *model.TradeHistory, err error) {
	message := string(b)
	message = strings.ReplaceAll(message, "[", "")
	message = strings.ReplaceAll(message, "]", "")
	message = strings.ReplaceAll(message, "\"", "")

	values := strings.Split(message, ",")
	if len(values) < 5 {
		return nil, fmt.Errorf("trade message has not 5 columns, message: %s", b)
	}

	h = &model.TradeHistory{}

	h.ID, err = strconv.ParseUint(values[0], 10, 64)
	if err != nil {
		return
	}
	pair, err := model.ParseToCurrencyPair(values[1])
	if err != nil {
		return
	}
	h.Pair = *pair
	h.Rate, err = strconv.ParseFloat(values[2], 64)
	if err != nil {
		return
	}
	h.Amount, err = strconv.ParseFloat(values[3], 64)
	if err != nil {
		return
	}
	h.Side = toOrderSide(values[4])

	h.Time = time.Now()
	return
}

func toFloat64(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func toFloat64Nullable(s string, def *float64) *float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	return def
}

// toBookEntry 板の1行（[レート, 数量]）に変換
func toBookEntry(values []interface{}) (*model.BookEntry, error) {
	if len(values) != 2 {
		return nil, fmt.Errorf("book entry has not 2 columns, entry: %v", values)
	}
	rate, err := toFloat64FromAny(values[0])
	if err != nil {
		return nil, err
	}
	amount, err := toFloat64FromAny(values[1])
	if err != nil {
		return nil, err
	}
	return &model.BookEntry{Rate: rate, Amount: amount}, nil
}

func toFloat64FromAny(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("unexpected value type, value: %v", v)
	}
}

func toRequestString(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *v)
}

func toCurrencyPair(s string) model.CurrencyPair {
	splited := strings.Split(s, "_")
	if len(splited) != 2 {
		return model.CurrencyPair{}
	}
	return model.CurrencyPair{
		Key:        model.CurrencyType(splited[0]),
		Settlement: model.CurrencyType(splited[1]),
	}
}

func toOrderSide(s string) model.OrderSide {
	if s == "buy" {
		return model.BuySide
	}
	return model.SellSide
}
