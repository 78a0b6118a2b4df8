package trade

import (
	"context"
	"fmt"
	"time"

	"coincheck-bot/pkg/domain/exchange"
	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/domain/repository"
)

// cancelPollInterval キャンセル完了確認の間隔
const cancelPollInterval = 1 * time.Second

// Facade トレード操作をまとめたもの
type Facade struct {
	pair      *model.CurrencyPair
	exClient  exchange.Client
	rateRepo  repository.RateRepository
	orderRepo repository.OrderRepository
}

// NewFacade 生成
func NewFacade(
	pair *model.CurrencyPair,
	exCli exchange.Client,
	rateRepo repository.RateRepository,
	orderRepo repository.OrderRepository,
) *Facade {
	return &Facade{
		pair:      pair,
		exClient:  exCli,
		rateRepo:  rateRepo,
		orderRepo: orderRepo,
	}
}

// GetPair 取引対象の通貨ペアを取得
func (f *Facade) GetPair() *model.CurrencyPair {
	return f.pair
}

// FetchAll 情報更新
func (f *Facade) FetchAll(ctx context.Context) error {
	if err := f.FetchRate(ctx); err != nil {
		return err
	}

	if err := f.SyncOrders(ctx); err != nil {
		return err
	}

	return nil
}

// FetchRate レートを更新
func (f *Facade) FetchRate(ctx context.Context) error {
	buyRate, err := f.exClient.GetOrderRate(ctx, f.pair, model.BuySide)
	if err != nil {
		return err
	}
	if err := f.rateRepo.AddOrderRate(buyRate); err != nil {
		return err
	}

	sellRate, err := f.exClient.GetOrderRate(ctx, f.pair, model.SellSide)
	if err != nil {
		return err
	}
	if err := f.rateRepo.AddOrderRate(sellRate); err != nil {
		return err
	}

	return nil
}

// SyncOrders 取引所の注文情報をリポジトリに反映
func (f *Facade) SyncOrders(ctx context.Context) error {
	openOrders, err := f.exClient.GetOpenOrders(ctx)
	if err != nil {
		return err
	}

	if err := f.orderRepo.UpsertOrders(openOrders); err != nil {
		return err
	}

	registeredOrders, err := f.orderRepo.GetOpenOrders()
	if err != nil {
		return err
	}

	for _, o := range registeredOrders {
		opened := false
		for _, openOrder := range openOrders {
			if openOrder.ID == o.ID {
				opened = true
				break
			}
		}

		if opened {
			continue
		}
		if err := f.orderRepo.UpdateStatus(o.ID, model.Closed); err != nil {
			return err
		}
	}

	return nil
}

// getOrderRate レートを取得
func (f *Facade) getOrderRate(ctx context.Context, side model.OrderSide) (float64, error) {
	if rate := f.rateRepo.GetCurrentRate(f.pair, side); rate != nil {
		return *rate, nil
	}

	rate, err := f.exClient.GetOrderRate(ctx, f.pair, side)
	if err != nil {
		return 0, err
	}

	return rate.Rate, nil
}

// GetBuyRate 買レートを取得
func (f *Facade) GetBuyRate(ctx context.Context) (float64, error) {
	return f.getOrderRate(ctx, model.BuySide)
}

// GetSellRate 売レートを取得
func (f *Facade) GetSellRate(ctx context.Context) (float64, error) {
	return f.getOrderRate(ctx, model.SellSide)
}

// GetBuyRateHistory 買レートの遷移を取得
func (f *Facade) GetBuyRateHistory() []float64 {
	return f.rateRepo.GetRateHistory(f.pair, model.BuySide)
}

// GetSellRateHistory 売レートの遷移を取得
func (f *Facade) GetSellRateHistory() []float64 {
	return f.rateRepo.GetRateHistory(f.pair, model.SellSide)
}

// GetRateHistorySizeMax レート履歴の最大容量を取得
func (f *Facade) GetRateHistorySizeMax() int {
	return f.rateRepo.GetHistorySizeMax()
}

// GetOpenOrders 未決済の注文情報を取得
func (f *Facade) GetOpenOrders() ([]model.Order, error) {
	return f.orderRepo.GetOpenOrders()
}

// GetContracts 約定情報を取得
func (f *Facade) GetContracts(ctx context.Context) ([]model.Contract, error) {
	return f.exClient.GetContracts(ctx)
}

// GetBalance 指定通貨の残高を取得
func (f *Facade) GetBalance(ctx context.Context, currency model.CurrencyType) (*model.Balance, error) {
	balances, err := f.exClient.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	balance, ok := balances[currency]
	if !ok {
		return nil, fmt.Errorf("balance is not found, currency: %s", currency)
	}

	return &balance, nil
}

// GetJpyBalance 日本円の残高を取得
func (f *Facade) GetJpyBalance(ctx context.Context) (*model.Balance, error) {
	return f.GetBalance(ctx, model.JPY)
}

// GetTicker ティッカー情報を取得
func (f *Facade) GetTicker(ctx context.Context) (*model.Ticker, error) {
	return f.exClient.GetTicker(ctx, f.pair)
}

// GetOrderBooks 板情報を取得
func (f *Facade) GetOrderBooks(ctx context.Context) (*model.OrderBooks, error) {
	return f.exClient.GetOrderBooks(ctx, f.pair)
}

// GetStoreRate 販売所レートを取得
func (f *Facade) GetStoreRate(ctx context.Context) (float64, error) {
	return f.exClient.GetRate(ctx, f.pair)
}

// GetTrades 直近の取引履歴を取得
func (f *Facade) GetTrades(ctx context.Context, limit int) ([]model.TradeHistory, error) {
	return f.exClient.GetTrades(ctx, f.pair, limit)
}

// SendMarketBuyOrder 成行買い注文
func (f *Facade) SendMarketBuyOrder(ctx context.Context, amount float64) (*model.Order, error) {
	return f.postOrder(ctx, &model.NewOrder{
		Type:            model.MarketBuy,
		Pair:            *f.pair,
		MarketBuyAmount: &amount,
	})
}

// SendMarketSellOrder 成行売り注文
func (f *Facade) SendMarketSellOrder(ctx context.Context, amount float64) (*model.Order, error) {
	return f.postOrder(ctx, &model.NewOrder{
		Type:            model.MarketSell,
		Pair:            *f.pair,
		Amount:          &amount,
		Rate:            nil,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
}

// SendSellOrder 売り注文
func (f *Facade) SendSellOrder(ctx context.Context, amount float64, rate float64) (*model.Order, error) {
	return f.postOrder(ctx, &model.NewOrder{
		Type:   model.Sell,
		Pair:   *f.pair,
		Amount: &amount,
		Rate:   &rate,
	})
}

// postOrder 注文
func (f *Facade) postOrder(ctx context.Context, o *model.NewOrder) (*model.Order, error) {
	order, err := f.exClient.PostOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	if err := f.orderRepo.UpsertOrders([]model.Order{*order}); err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder 注文キャンセル
func (f *Facade) CancelOrder(ctx context.Context, orderID uint64) error {
	if _, err := f.exClient.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	// キャンセルは非同期で処理されるため、完了を確認してからステータスを更新する
	for {
		canceled, err := f.exClient.GetCancelStatus(ctx, orderID)
		if err != nil {
			return err
		}
		if canceled {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cancelPollInterval):
		}
	}

	return f.orderRepo.UpdateStatus(orderID, model.Closed)
}
