package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/infrastructure/coincheck"
	"coincheck-bot/pkg/infrastructure/memory"
	"coincheck-bot/pkg/infrastructure/mysql"

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

func main() {
	logger := memory.Logger{Level: memory.Debug}

	logger.Info("===== START PROGRAM ====================")
	defer logger.Info("===== END PROGRAM ======================")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		logger.Error(err.Error())
		return
	}
	pair, err := model.ParseToCurrencyPair(config.TargetPair)
	if err != nil {
		logger.Error(err.Error())
		return
	}

	logger.Info("pair: %s\n", config.TargetPair)
	logger.Info("interval: %d sec\n", config.IntervalSeconds)
	logger.Info("======================================")

	coincheckCli := coincheck.NewPublicClient(&logger)
	mysqlCli := mysql.NewClient(config.DB.UserName, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Name)
	fetcher := NewFetcher(&config, coincheckCli, mysqlCli, &logger)

	rootCtx, cancel := context.WithCancel(context.Background())
	errGroup, ctx := errgroup.WithContext(rootCtx)

	errGroup.Go(fetcher.Fetch(ctx, pair))
	errGroup.Go(fetcher.Watch(ctx, pair))
	errGroup.Go(func() error {
		defer cancel()
		return watchSignal(ctx, &logger)
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

type Config struct {
	// 対象コインペア
	TargetPair string `required:"true" split_words:"true"`
	// 稼働間隔（秒）
	IntervalSeconds int `required:"true" split_words:"true"`
	// DB設定
	DB model.DB `required:"true" split_words:"true"`
}

type Fetcher struct {
	Config       *Config
	CoincheckCli *coincheck.Client
	MysqlCli     *mysql.Client
	Logger       *memory.Logger

	mtx        sync.Mutex
	volumeSell float64
	volumeBuy  float64
}

func NewFetcher(config *Config, coincheckCli *coincheck.Client, mysqlCli *mysql.Client, logger *memory.Logger) *Fetcher {
	return &Fetcher{
		Config:       config,
		CoincheckCli: coincheckCli,
		MysqlCli:     mysqlCli,
		Logger:       logger,
	}
}

// Watch 取引履歴を購読して出来高を集計する
func (f *Fetcher) Watch(ctx context.Context, pair *model.CurrencyPair) func() error {
	return func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
				if err := f.CoincheckCli.SubscribeTradeHistory(ctx, pair, f.receiveTrade); err != nil {
					if !strings.Contains(err.Error(), "i/o timeout") {
						f.Logger.Error("error occured in Watch, %v", err)
					}
				}
			}
		}
	}
}

func (f *Fetcher) receiveTrade(h *model.TradeHistory) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if h.Side == model.SellSide {
		f.volumeSell += h.Amount
	} else {
		f.volumeBuy += h.Amount
	}
	return nil
}

// takeVolumes 集計した出来高を取り出してリセットする
func (f *Fetcher) takeVolumes() (sell, buy float64) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	sell, buy = f.volumeSell, f.volumeBuy
	f.volumeSell = 0
	f.volumeBuy = 0
	return sell, buy
}

// Fetch 市場情報の定期保存
func (f *Fetcher) Fetch(ctx context.Context, pair *model.CurrencyPair) func() error {
	return func() error {
		ticker := time.NewTicker(time.Duration(f.Config.IntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := f.fetch(ctx, pair); err != nil {
					f.Logger.Error("failed to fetch, error: %v", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (f *Fetcher) fetch(ctx context.Context, pair *model.CurrencyPair) error {
	storeRate, err := f.CoincheckCli.GetRate(ctx, pair)
	if err != nil {
		return err
	}
	sellRate, err := f.CoincheckCli.GetOrderRate(ctx, pair, model.SellSide)
	if err != nil {
		return err
	}
	buyRate, err := f.CoincheckCli.GetOrderRate(ctx, pair, model.BuySide)
	if err != nil {
		return err
	}

	volumeSell, volumeBuy := f.takeVolumes()

	m := model.Market{
		Pair:       *pair,
		StoreRate:  storeRate,
		SellRate:   sellRate.Rate,
		BuyRate:    buyRate.Rate,
		SellVolume: volumeSell,
		BuyVolume:  volumeBuy,
		RecordedAt: time.Now(),
	}
	f.Logger.Debug("%+v", m)
	if err := f.MysqlCli.AddMarket(&m); err != nil {
		return err
	}

	return nil
}
