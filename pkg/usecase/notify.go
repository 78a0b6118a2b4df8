package usecase

import (
	"context"
	"fmt"
	"time"

	"coincheck-bot/pkg/domain"
	"coincheck-bot/pkg/domain/model"
	repo "coincheck-bot/pkg/domain/repository"
	"coincheck-bot/pkg/infrastructure/slack"

	cache "github.com/pmylund/go-cache"
)

const (
	// notifiedExpiration 通知済みキャッシュの保持期間
	notifiedExpiration = 30 * time.Minute
	// notifiedCleanupInterval 通知済みキャッシュの掃除間隔
	notifiedCleanupInterval = 5 * time.Minute
)

// Notifier レート変動の通知者
type Notifier struct {
	logger    domain.Logger
	slackCli  *slack.Client
	rateRepo  repo.RateRepository
	pair      *model.CurrencyPair
	threshold float64
	notified  *cache.Cache
}

// NewNotifier 生成
func NewNotifier(logger domain.Logger, slackCli *slack.Client, rateRepo repo.RateRepository, pair *model.CurrencyPair, threshold float64) *Notifier {
	return &Notifier{
		logger:    logger,
		slackCli:  slackCli,
		rateRepo:  rateRepo,
		pair:      pair,
		threshold: threshold,
		notified:  cache.New(notifiedExpiration, notifiedCleanupInterval),
	}
}

// Notify レート変動が閾値を超えていればSlackに通知
func (n *Notifier) Notify(ctx context.Context) error {
	rates := n.rateRepo.GetRateHistory(n.pair, model.BuySide)
	if len(rates) < 2 {
		return nil
	}

	oldest := rates[0]
	latest := rates[len(rates)-1]
	if oldest == 0 {
		return nil
	}

	changeRate := (latest - oldest) / oldest
	if changeRate < n.threshold && changeRate > -n.threshold {
		return nil
	}

	direction := "上昇"
	if changeRate < 0 {
		direction = "下落"
	}

	// 同方向の変動は保持期間内に一度だけ通知する
	key := fmt.Sprintf("%s:%s", n.pair.String(), direction)
	if err := n.notified.Add(key, true, cache.DefaultExpiration); err != nil {
		n.logger.Debug("skip notification, already notified, key: %s", key)
		return nil
	}

	msg := fmt.Sprintf("%s の買いレートが%s中です（変動率: %.2f%%, 現在レート: %.3f）", n.pair.String(), direction, changeRate*100, latest)
	n.logger.Info("send notification, %s", msg)

	return n.slackCli.PostMessage(ctx, slack.TextMessage{Text: msg})
}
