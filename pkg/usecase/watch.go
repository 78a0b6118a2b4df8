package usecase

import (
	"context"

	ex "coincheck-bot/pkg/domain/exchange"
	"coincheck-bot/pkg/domain/model"
	repo "coincheck-bot/pkg/domain/repository"
)

// RateWatcher レート監視者
type RateWatcher struct {
	rateRepo repo.RateRepository
	exClient ex.PublicClient
}

// NewRateWatcher 生成
func NewRateWatcher(repo repo.RateRepository, exCli ex.PublicClient) *RateWatcher {
	return &RateWatcher{
		rateRepo: repo,
		exClient: exCli,
	}
}

// Watch 監視
func (w *RateWatcher) Watch(ctx context.Context, p *model.CurrencyPair) error {
	for _, side := range []model.OrderSide{model.BuySide, model.SellSide} {
		rate, err := w.exClient.GetOrderRate(ctx, p, side)
		if err != nil {
			return err
		}
		if err := w.rateRepo.AddOrderRate(rate); err != nil {
			return err
		}
	}
	return nil
}
