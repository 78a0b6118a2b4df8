package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/infrastructure/coincheck"
	"coincheck-bot/pkg/infrastructure/memory"
	"coincheck-bot/pkg/infrastructure/mysql"
	"coincheck-bot/pkg/infrastructure/slack"
	"coincheck-bot/pkg/usecase"
	"coincheck-bot/pkg/usecase/trade"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

const (
	location = "Asia/Tokyo"
)

func init() {
	loc, err := time.LoadLocation(location)
	if err != nil {
		loc = time.FixedZone(location, 9*60*60)
	}
	time.Local = loc
}

// Config 環境変数から読み込む設定
type Config struct {
	// 戦略名
	StrategyName string `required:"true" split_words:"true"`
	// 購入対象コイン
	TargetCurrency string `required:"true" split_words:"true"`
	// レート履歴の最大保持数
	RateHistorySize int `required:"true" split_words:"true"`
	// レート監視間隔（秒）
	WatchIntervalSeconds int `required:"true" split_words:"true"`
	// 通知判定間隔（秒）
	NotifyIntervalSeconds int `required:"true" split_words:"true"`
	// 通知する変動率の閾値
	NotifyThreshold float64 `required:"true" split_words:"true"`
	// SlackのIncomingWebhookのURL
	SlackURL string `required:"true" split_words:"true"`
	// 取引所設定
	Exchange model.Exchange `required:"true" split_words:"true"`
	// DB設定
	DB model.DB `required:"true" split_words:"true"`
}

func main() {
	logger := memory.Logger{Level: memory.Debug}

	logger.Info("===== START PROGRAM ====================")
	defer logger.Info("===== END PROGRAM ======================")

	if err := godotenv.Load(); err != nil {
		logger.Debug("skip loading .env, error: %v", err)
	}

	var config Config
	if err := envconfig.Process("BOT", &config); err != nil {
		logger.Error(err.Error())
		return
	}

	logger.Info("strategy: %s", config.StrategyName)
	logger.Info("currency: %s", config.TargetCurrency)
	logger.Info("======================================")

	exCli, err := coincheck.NewClient(&logger, config.Exchange.AccessKey, config.Exchange.SecretKey)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	rateRepo := memory.NewRateRepository(config.RateHistorySize)
	mysqlCli := mysql.NewClient(config.DB.UserName, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Name)
	slackCli := slack.NewClient(config.SlackURL)

	pair := &model.CurrencyPair{
		Key:        model.CurrencyType(config.TargetCurrency),
		Settlement: model.JPY,
	}
	facade := trade.NewFacade(pair, exCli, rateRepo, mysqlCli)

	st, err := usecase.MakeStrategy(usecase.StrategyType(config.StrategyName), facade, &logger)
	if err != nil {
		logger.Error(err.Error())
		return
	}

	watcher := usecase.NewRateWatcher(rateRepo, exCli)
	notifier := usecase.NewNotifier(&logger, slackCli, rateRepo, pair, config.NotifyThreshold)

	rootCtx, cancel := context.WithCancel(context.Background())
	errGroup, ctx := errgroup.WithContext(rootCtx)

	errGroup.Go(func() error {
		defer cancel()
		return watchSignal(ctx, &logger)
	})
	errGroup.Go(func() error {
		// 取引ループ
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			if err := st.Trade(ctx); err != nil {
				logger.Error("error occured in Trade, %v", err)
			}
			if err := st.Wait(ctx); err != nil {
				return err
			}
		}
	})
	errGroup.Go(func() error {
		// レートの定期取得
		ticker := time.NewTicker(time.Duration(config.WatchIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := watcher.Watch(ctx, pair); err != nil {
					logger.Error("failed to watch rate, error: %v", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	errGroup.Go(func() error {
		// レート変動の通知
		ticker := time.NewTicker(time.Duration(config.NotifyIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := notifier.Notify(ctx); err != nil {
					logger.Error("failed to notify, error: %v", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := errGroup.Wait(); err != nil {
		logger.Error("error occured, %v", err)
	}
}

func watchSignal(ctx context.Context, logger *memory.Logger) error {
	// OSのシグナル監視
	quit := make(chan os.Signal, 1)
	defer close(quit)
	signal.Notify(quit, os.Interrupt)
	select {
	case <-quit:
		logger.Info("terminating ...")
	case <-ctx.Done():
	}
	return nil
}
