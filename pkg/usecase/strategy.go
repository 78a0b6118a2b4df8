package usecase

import (
	"context"
	"fmt"

	"coincheck-bot/pkg/domain"
	"coincheck-bot/pkg/usecase/strategy"
	"coincheck-bot/pkg/usecase/trade"
)

// Strategy 戦略
type Strategy interface {
	// Trade 取引
	Trade(ctx context.Context) error
	// Wait 次の取引まで待機
	Wait(ctx context.Context) error
}

// StrategyType 戦略種別
type StrategyType string

const (
	// WatchOnly 定期取得のみ
	WatchOnly StrategyType = "watch_only"
	// FollowUptrend 上昇トレンド追従戦略
	FollowUptrend StrategyType = "follow_uptrend"
)

// MakeStrategy 戦略を生成
func MakeStrategy(t StrategyType, f *trade.Facade, logger domain.Logger) (Strategy, error) {
	switch t {
	case WatchOnly:
		return strategy.NewWatchOnlyStrategy(f, logger)
	case FollowUptrend:
		config, err := strategy.NewFollowUptrendConfig("./configs/bot-follow-uptrend.toml")
		if err != nil {
			return nil, err
		}
		return strategy.NewFollowUptrendStrategy(f, logger, config)
	default:
		return nil, fmt.Errorf("unknown strategy type: %s", t)
	}
}
