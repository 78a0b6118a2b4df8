package strategy

import (
	"context"
	"fmt"
	"time"

	"coincheck-bot/pkg/domain"
	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/usecase/trade"

	"github.com/BurntSushi/toml"
	"github.com/markcheno/go-talib"
)

const (
	// contractWaitCountMax 約定確認の最大回数
	contractWaitCountMax = 10
	// contractWaitInterval 約定確認の間隔
	contractWaitInterval = 1 * time.Second
)

// FollowUptrendConfig 上昇トレンド追従戦略の設定
type FollowUptrendConfig struct {
	IntervalSeconds int     `toml:"interval_seconds"`
	ShortTermSize   int     `toml:"short_term_size"`
	LongTermSize    int     `toml:"long_term_size"`
	FundsRatio      float64 `toml:"funds_ratio"`
	TargetProfitPer float64 `toml:"target_profit_per"`
	LossCutLowerPer float64 `toml:"loss_cut_lower_per"`
}

func (c *FollowUptrendConfig) validate() error {
	if c.IntervalSeconds == 0 {
		return fmt.Errorf("IntervalSeconds is empty, %v", c.IntervalSeconds)
	}
	if c.ShortTermSize == 0 {
		return fmt.Errorf("ShortTermSize is empty, %v", c.ShortTermSize)
	}
	if c.LongTermSize == 0 {
		return fmt.Errorf("LongTermSize is empty, %v", c.LongTermSize)
	}
	if c.ShortTermSize >= c.LongTermSize {
		return fmt.Errorf("ShortTermSize must be less than LongTermSize, short: %d, long: %d", c.ShortTermSize, c.LongTermSize)
	}
	if c.FundsRatio <= 0 || c.FundsRatio > 1.0 {
		return fmt.Errorf("FundsRatio is out of range, %v", c.FundsRatio)
	}
	if c.TargetProfitPer == 0 {
		return fmt.Errorf("TargetProfitPer is empty, %v", c.TargetProfitPer)
	}
	if c.LossCutLowerPer == 0 {
		return fmt.Errorf("LossCutLowerPer is empty, %v", c.LossCutLowerPer)
	}
	return nil
}

// NewFollowUptrendConfig 設定を読み込む
func NewFollowUptrendConfig(f string) (*FollowUptrendConfig, error) {
	var conf FollowUptrendConfig
	if _, err := toml.DecodeFile(f, &conf); err != nil {
		return nil, err
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("[%s] validation error: %w", f, err)
	}
	return &conf, nil
}

// FollowUptrendStrategy 上昇トレンド追従戦略
type FollowUptrendStrategy struct {
	logger domain.Logger
	facade *trade.Facade

	config *FollowUptrendConfig
}

// NewFollowUptrendStrategy 戦略を生成
func NewFollowUptrendStrategy(facade *trade.Facade, logger domain.Logger, config *FollowUptrendConfig) (*FollowUptrendStrategy, error) {
	return &FollowUptrendStrategy{
		logger: logger,
		facade: facade,
		config: config,
	}, nil
}

// Trade 取引
func (s *FollowUptrendStrategy) Trade(ctx context.Context) error {
	if err := s.facade.FetchAll(ctx); err != nil {
		return err
	}

	openOrders, err := s.facade.GetOpenOrders()
	if err != nil {
		return err
	}

	if len(openOrders) == 0 {
		if !s.isUptrend() {
			return nil
		}
		return s.entry(ctx)
	}

	return s.watchOpenOrders(ctx, openOrders)
}

// Wait 待機
func (s *FollowUptrendStrategy) Wait(ctx context.Context) error {
	interval := time.Duration(s.config.IntervalSeconds) * time.Second

	s.logger.Debug("waiting ... (%v)", interval)
	ctx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()

	<-ctx.Done()

	if ctx.Err() != context.Canceled && ctx.Err() != context.DeadlineExceeded {
		return ctx.Err()
	}
	return nil
}

// isUptrend 上昇トレンドか判定
func (s *FollowUptrendStrategy) isUptrend() bool {
	rates := s.facade.GetBuyRateHistory()

	// レート情報が少ないときは判断不可
	if len(rates) <= s.config.LongTermSize {
		s.logger.Debug("[trend] => skip judge (rate count:%d <= required:%d)", len(rates), s.config.LongTermSize)
		return false
	}

	sRates := talib.Ema(rates, s.config.ShortTermSize)
	sRate := sRates[len(sRates)-1]
	lRates := talib.Ema(rates, s.config.LongTermSize)
	lRate := lRates[len(lRates)-1]

	if sRate <= lRate {
		s.logger.Debug("[trend] => not uptrend (EMA short:%.3f <= long:%.3f)", sRate, lRate)
		return false
	}

	xs := make([]float64, len(rates))
	for i := range rates {
		xs[i] = float64(i)
	}
	a, _ := trade.LinFit(xs, rates)
	if a <= 0 {
		s.logger.Debug("[trend] => not uptrend (slope:%.5f <= 0)", a)
		return false
	}

	s.logger.Debug(domain.Green("[trend] => uptrend (EMA short:%.3f > long:%.3f, slope:%.5f > 0)"), sRate, lRate, a)
	return true
}

// entry 新規注文（成行買い後に利確用の指値売りを出す）
func (s *FollowUptrendStrategy) entry(ctx context.Context) error {
	balance, err := s.facade.GetJpyBalance(ctx)
	if err != nil {
		return err
	}

	amount := balance.Amount * s.config.FundsRatio
	if amount <= 0 {
		s.logger.Debug("[buy] => skip buy (jpy balance is empty)")
		return nil
	}

	s.logger.Debug("[buy] sending buy order ... (amount[jpy]:%.3f)", amount)
	buyOrder, err := s.facade.SendMarketBuyOrder(ctx, amount)
	if err != nil {
		return err
	}
	s.logger.Info("[buy] completed to send buy order (id:%d, amount[jpy]:%.3f)", buyOrder.ID, amount)

	used, obtained, err := s.waitContract(ctx, buyOrder.ID)
	if err != nil {
		return err
	}

	avgRate := used / obtained
	sellRate := avgRate * (1 + s.config.TargetProfitPer)

	s.logger.Debug("[sell] sending sell order ... (amount:%.8f, rate:%.3f)", obtained, sellRate)
	sellOrder, err := s.facade.SendSellOrder(ctx, obtained, sellRate)
	if err != nil {
		return err
	}
	s.logger.Info("[sell] completed to send sell order (id:%d, amount:%.8f, rate:%.3f)", sellOrder.ID, sellOrder.Amount, sellRate)

	return nil
}

// waitContract 注文の約定を待ち、使用金額と取得量を返す
func (s *FollowUptrendStrategy) waitContract(ctx context.Context, orderID uint64) (used, obtained float64, err error) {
	for i := 0; i < contractWaitCountMax; i++ {
		contracts, err := s.facade.GetContracts(ctx)
		if err != nil {
			return 0, 0, err
		}

		targets := []model.Contract{}
		for _, c := range contracts {
			if c.OrderID == orderID {
				targets = append(targets, c)
			}
		}

		used, obtained = trade.CalcAmounts(s.facade.GetPair(), targets)
		if obtained > 0 {
			return used, obtained, nil
		}

		s.logger.Debug("[buy] waiting contract ... (order id:%d)", orderID)
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		case <-time.After(contractWaitInterval):
		}
	}

	return 0, 0, fmt.Errorf("contract is not found, order id: %d", orderID)
}

// watchOpenOrders 未決済の売り注文を監視し、必要ならロスカットする
func (s *FollowUptrendStrategy) watchOpenOrders(ctx context.Context, openOrders []model.Order) error {
	sellRate, err := s.facade.GetSellRate(ctx)
	if err != nil {
		return err
	}

	for _, o := range openOrders {
		if o.Type != model.Sell || o.Rate == nil {
			continue
		}

		entryRate := *o.Rate / (1 + s.config.TargetProfitPer)
		lossCutRate := entryRate * (1 - s.config.LossCutLowerPer)
		if sellRate >= lossCutRate {
			s.logger.Debug("[losscut] => keep sell order (id:%d, sell rate:%.3f >= border:%.3f)", o.ID, sellRate, lossCutRate)
			continue
		}

		s.logger.Info(domain.Yellow("[losscut] => loss cut (id:%d, sell rate:%.3f < border:%.3f)"), o.ID, sellRate, lossCutRate)
		if err := s.facade.CancelOrder(ctx, o.ID); err != nil {
			return err
		}
		if _, err := s.facade.SendMarketSellOrder(ctx, o.Amount); err != nil {
			return err
		}
	}

	return nil
}
