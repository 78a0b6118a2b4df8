package coincheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"coincheck-bot/pkg/domain"
	"coincheck-bot/pkg/domain/model"
)

const (
	origin   = "https://coincheck.com/"
	wsOrigin = "wss://ws-api.coincheck.com/"
)

// Client Coincheck用クライアント
type Client struct {
	logger     domain.Logger
	accessKey  string
	secretKey  string
	origin     string
	wsOrigin   string
	httpClient *http.Client
}

// NewClient 認証付きクライアントを生成。APIキーが空ならエラー
func NewClient(logger domain.Logger, accessKey, secretKey string) (*Client, error) {
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("failed to create coincheck client, API credentials are not set")
	}

	c := NewPublicClient(logger)
	c.accessKey = accessKey
	c.secretKey = secretKey
	return c, nil
}

// NewPublicClient 認証なしエンドポイント専用のクライアントを生成
func NewPublicClient(logger domain.Logger) *Client {
	return &Client{
		logger:     logger,
		origin:     origin,
		wsOrigin:   wsOrigin,
		httpClient: http.DefaultClient,
	}
}

// GetTicker ティッカー情報取得
func (c *Client) GetTicker(ctx context.Context, pair *model.CurrencyPair) (*model.Ticker, error) {
	res, err := c.getTicker(ctx, pair)
	if err != nil {
		return nil, err
	}
	return &model.Ticker{
		Pair:      *pair,
		Last:      res.Last,
		Bid:       res.Bid,
		Ask:       res.Ask,
		High:      res.High,
		Low:       res.Low,
		Volume:    res.Volume,
		Timestamp: time.Unix(res.Timestamp, 0),
	}, nil
}

// GetOrderBooks 板情報取得
func (c *Client) GetOrderBooks(ctx context.Context, pair *model.CurrencyPair) (*model.OrderBooks, error) {
	res, err := c.getOrderBooks(ctx, pair)
	if err != nil {
		return nil, err
	}

	books := &model.OrderBooks{Pair: *pair}
	for _, v := range res.Asks {
		e, err := toBookEntry(v)
		if err != nil {
			return nil, err
		}
		books.Asks = append(books.Asks, *e)
	}
	for _, v := range res.Bids {
		e, err := toBookEntry(v)
		if err != nil {
			return nil, err
		}
		books.Bids = append(books.Bids, *e)
	}
	return books, nil
}

// GetOrderRate 注文レート取得
func (c *Client) GetOrderRate(ctx context.Context, pair *model.CurrencyPair, side model.OrderSide) (*model.OrderRate, error) {
	return c.getOrderRate(ctx, pair, side)
}

// GetRate レート取得
func (c *Client) GetRate(ctx context.Context, pair *model.CurrencyPair) (float64, error) {
	return c.getRate(ctx, pair)
}

// GetTrades 全体の取引履歴取得
func (c *Client) GetTrades(ctx context.Context, pair *model.CurrencyPair, limit int) ([]model.TradeHistory, error) {
	tt, err := c.getTrades(ctx, pair, limit)
	if err != nil {
		return nil, err
	}

	hh := []model.TradeHistory{}
	for _, t := range tt {
		hh = append(hh, model.TradeHistory{
			ID:     t.ID,
			Pair:   toCurrencyPair(t.Pair),
			Rate:   toFloat64(t.Rate, 0),
			Amount: toFloat64(t.Amount, 0),
			Side:   toOrderSide(t.OrderType),
			Time:   t.CreatedAt,
		})
	}
	return hh, nil
}

// GetBalance 残高取得
func (c *Client) GetBalance(ctx context.Context) (map[model.CurrencyType]model.Balance, error) {
	res, err := c.getAccountBalance(ctx)
	if err != nil {
		return nil, err
	}
	return res.toMap(), nil
}

// GetOpenOrders 未決済の注文取得
func (c *Client) GetOpenOrders(ctx context.Context) ([]model.Order, error) {
	oo, err := c.getOpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	orders := []model.Order{}
	for _, o := range oo {
		orders = append(orders, model.Order{
			ID:           o.ID,
			Type:         model.OrderType(o.OrderType),
			Pair:         toCurrencyPair(o.Pair),
			Amount:       toFloat64(o.PendingAmount, 0),
			Rate:         toFloat64Nullable(o.Rate, nil),
			StopLossRate: toFloat64Nullable(o.StopLossRate, nil),
			OpenAt:       o.CreatedAt,
		})
	}
	return orders, nil
}

// GetContracts 約定情報取得
func (c *Client) GetContracts(ctx context.Context) ([]model.Contract, error) {
	tt, err := c.getOrderTransactions(ctx)
	if err != nil {
		return nil, err
	}

	cc := []model.Contract{}
	for _, t := range tt {
		if len(t.Funds) != 2 {
			return nil, fmt.Errorf("transaction has not 2 funds, funds: %v", t.Funds)
		}

		currencies := []model.CurrencyType{}
		funds := []float64{}
		for k, v := range t.Funds {
			currencies = append(currencies, model.CurrencyType(k))
			funds = append(funds, toFloat64(v, 0))
		}

		cc = append(cc, model.Contract{
			OrderID:     t.OrderID,
			Rate:        toFloat64(t.Rate, 0),
			Currency1:   currencies[0],
			Fund1:       funds[0],
			Currency2:   currencies[1],
			Fund2:       funds[1],
			FeeCurrency: model.CurrencyType(t.FeeCurrency),
			Fee:         toFloat64(t.Fee, 0),
			Liquidity:   model.LiquidityType(t.Liquidity),
			Side:        toOrderSide(t.Side),
		})
	}
	return cc, nil
}

// PostOrder 注文登録
func (c *Client) PostOrder(ctx context.Context, o *model.NewOrder) (*model.Order, error) {
	res, err := c.postOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	return &model.Order{
		ID:           res.ID,
		Type:         model.OrderType(res.OrderType),
		Pair:         toCurrencyPair(res.Pair),
		Amount:       toFloat64(res.Amount, 0),
		Rate:         toFloat64Nullable(res.Rate, nil),
		StopLossRate: toFloat64Nullable(res.StopLossRate, nil),
		OpenAt:       res.CreatedAt,
	}, nil
}

// DeleteOrder 注文削除。キャンセルを受け付けた注文のIDを返す
func (c *Client) DeleteOrder(ctx context.Context, id uint64) (uint64, error) {
	return c.deleteOrder(ctx, id)
}

// GetCancelStatus 注文キャンセルの状態取得
func (c *Client) GetCancelStatus(ctx context.Context, id uint64) (bool, error) {
	return c.getCancelStatus(ctx, id)
}

func (c *Client) makeURL(endpoint string, queries map[string]string) (*url.URL, error) {
	u, err := url.Parse(c.origin)
	if err != nil {
		return nil, fmt.Errorf("failed to parse origin url; origin: %s, error: %w", c.origin, err)
	}

	u.Path = path.Join(u.Path, endpoint)

	if queries == nil {
		return u, nil
	}

	q := u.Query()
	for k, v := range queries {
		q.Add(k, v)
	}
	u.RawQuery = q.Encode()

	return u, nil
}

// get 認証なしエンドポイント用のリクエスト
func (c *Client) get(ctx context.Context, u *url.URL, resJSON interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var errRes errorResponse
	if err := json.Unmarshal(body, &errRes); err == nil && !errRes.Success && errRes.Error != "" {
		return &ResponseError{Message: errRes.Error, URL: u.String()}
	}

	if err := json.Unmarshal(body, resJSON); err != nil {
		return &ParseError{Body: string(body)}
	}
	return nil
}
