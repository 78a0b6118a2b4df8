package strategy

import (
	"context"
	"time"

	"coincheck-bot/pkg/domain"
	"coincheck-bot/pkg/usecase/trade"

	"github.com/BurntSushi/toml"
)

// WatchOnlyStrategy 定期取得のみ
type WatchOnlyStrategy struct {
	facade   *trade.Facade
	logger   domain.Logger
	interval time.Duration
}

// NewWatchOnlyStrategy 戦略を生成
func NewWatchOnlyStrategy(f *trade.Facade, logger domain.Logger) (*WatchOnlyStrategy, error) {
	s := &WatchOnlyStrategy{
		facade: f,
		logger: logger,
	}

	if err := s.loadConfig(); err != nil {
		return nil, err
	}

	return s, nil
}

// Trade 取引処理
func (s *WatchOnlyStrategy) Trade(ctx context.Context) error {
	if err := s.loadConfig(); err != nil {
		return err
	}

	if err := s.facade.FetchAll(ctx); err != nil {
		return err
	}

	s.logger.Info("buy rate: %v", s.facade.GetBuyRateHistory())
	s.logger.Info("sell rate: %v", s.facade.GetSellRateHistory())

	storeRate, err := s.facade.GetStoreRate(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("store rate: %.3f", storeRate)

	tt, err := s.facade.GetTrades(ctx, 5)
	if err != nil {
		return err
	}
	s.logger.Info("trade count: %d", len(tt))
	for _, t := range tt {
		s.logger.Info("trade: %#v", t)
	}

	oo, err := s.facade.GetOpenOrders()
	if err != nil {
		return err
	}
	s.logger.Info("open order count: %d", len(oo))
	for _, o := range oo {
		s.logger.Info("open order: %#v", o)
	}

	cc, err := s.facade.GetContracts(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("contract count: %d", len(cc))
	for _, c := range cc {
		s.logger.Info("contract: %#v", c)
	}

	return nil
}

// Wait 待機
func (s *WatchOnlyStrategy) Wait(ctx context.Context) error {
	s.logger.Debug("waiting ... (%v)", s.interval)
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	<-ctx.Done()

	if ctx.Err() != context.Canceled && ctx.Err() != context.DeadlineExceeded {
		return ctx.Err()
	}
	return nil
}

// loadConfig 設定は取引のたびに読み直す
func (s *WatchOnlyStrategy) loadConfig() error {
	const configPath = "./configs/bot-watch-only.toml"
	var conf watchOnlyConfig
	if _, err := toml.DecodeFile(configPath, &conf); err != nil {
		return err
	}

	s.interval = time.Duration(conf.IntervalSeconds) * time.Second

	return nil
}

type watchOnlyConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}
