package coincheck

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coincheck-bot/pkg/domain/model"
)

// getTicker ティッカー情報取得
func (c *Client) getTicker(ctx context.Context, p *model.CurrencyPair) (*Ticker, error) {
	u, err := c.makeURL("/api/ticker", map[string]string{
		"pair": p.String(),
	})
	if err != nil {
		return nil, err
	}

	var res Ticker
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// getOrderBooks 板情報取得
func (c *Client) getOrderBooks(ctx context.Context, p *model.CurrencyPair) (*OrderBooks, error) {
	u, err := c.makeURL("/api/order_books", map[string]string{
		"pair": p.String(),
	})
	if err != nil {
		return nil, err
	}

	var res OrderBooks
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// getOrderRate 注文レート取得
func (c *Client) getOrderRate(ctx context.Context, p *model.CurrencyPair, s model.OrderSide) (*model.OrderRate, error) {
	u, err := c.makeURL("/api/exchange/orders/rate", map[string]string{
		"order_type": s.String(),
		"pair":       p.String(),
		"amount":     "1",
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Success bool   `json:"success"`
		Rate    string `json:"rate"`
		Amount  string `json:"amount"`
		Price   string `json:"price"`
	}
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(res.Rate, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response of GetOrderRate, side: %v, pair: %v; error: %w", s, p, err)
	}

	return &model.OrderRate{
		Pair: *p,
		Side: s,
		Rate: rate,
	}, nil
}

// getRate レート取得
func (c *Client) getRate(ctx context.Context, p *model.CurrencyPair) (float64, error) {
	u, err := c.makeURL(fmt.Sprintf("/api/rate/%s", p.String()), nil)
	if err != nil {
		return 0, err
	}

	var res struct {
		Rate string `json:"rate"`
	}
	if err := c.get(ctx, u, &res); err != nil {
		return 0, err
	}

	rate, err := strconv.ParseFloat(res.Rate, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse response of GetRate, pair: %v; error: %w", p, err)
	}

	return rate, nil
}

// getTrades 全体の取引履歴取得
func (c *Client) getTrades(ctx context.Context, p *model.CurrencyPair, limit int) ([]Trade, error) {
	u, err := c.makeURL("/api/trades", map[string]string{
		"pair":  p.String(),
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Success bool    `json:"success"`
		Data    []Trade `json:"data"`
	}
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// getAccountBalance 残高取得
func (c *Client) getAccountBalance(ctx context.Context) (*Balance, error) {
	u, err := c.makeURL("/api/accounts/balance", nil)
	if err != nil {
		return nil, err
	}

	var res Balance
	if err := c.getWithAuth(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// getOpenOrders 未決済の注文一覧
func (c *Client) getOpenOrders(ctx context.Context) ([]OpenOrder, error) {
	u, err := c.makeURL("/api/exchange/orders/opens", nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Success bool        `json:"success"`
		Orders  []OpenOrder `json:"orders"`
	}
	if err := c.getWithAuth(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}

// getOrderTransactions 取引履歴
func (c *Client) getOrderTransactions(ctx context.Context) ([]OrderTransaction, error) {
	u, err := c.makeURL("/api/exchange/orders/transactions", nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Success      bool               `json:"success"`
		Transactions []OrderTransaction `json:"transactions"`
	}
	if err := c.getWithAuth(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// postOrder 新規注文
func (c *Client) postOrder(ctx context.Context, o *model.NewOrder) (*RegisteredOrder, error) {
	u, err := c.makeURL("/api/exchange/orders", nil)
	if err != nil {
		return nil, err
	}

	req := NewOrder{
		Pair:            o.Pair.String(),
		OrderType:       string(o.Type),
		Rate:            toRequestString(o.Rate),
		Amount:          toRequestString(o.Amount),
		MarketBuyAmount: toRequestString(o.MarketBuyAmount),
		StopLossRate:    toRequestString(o.StopLossRate),
	}

	var res RegisteredOrder
	if err := c.postWithAuth(ctx, u, &req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// deleteOrder 注文キャンセル
func (c *Client) deleteOrder(ctx context.Context, id uint64) (uint64, error) {
	u, err := c.makeURL(fmt.Sprintf("/api/exchange/orders/%d", id), nil)
	if err != nil {
		return 0, err
	}

	var res struct {
		Success bool   `json:"success"`
		ID      uint64 `json:"id"`
	}
	if err := c.deleteWithAuth(ctx, u, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

// getCancelStatus 注文キャンセルの状態取得
func (c *Client) getCancelStatus(ctx context.Context, id uint64) (bool, error) {
	u, err := c.makeURL("/api/exchange/orders/cancel_status", map[string]string{
		"id": strconv.FormatUint(id, 10),
	})
	if err != nil {
		return false, err
	}

	var res struct {
		Success   bool      `json:"success"`
		ID        uint64    `json:"id"`
		Cancel    bool      `json:"cancel"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := c.getWithAuth(ctx, u, &res); err != nil {
		return false, err
	}
	return res.Cancel, nil
}
