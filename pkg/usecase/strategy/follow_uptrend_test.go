package strategy_test

import (
	"context"
	"strings"
	"testing"

	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/infrastructure/memory"
	"coincheck-bot/pkg/usecase/strategy"
	"coincheck-bot/pkg/usecase/trade"
)

var EPSILON float64 = 0.00000001

func floatEquals(a, b float64) bool {
	return (a-b) < EPSILON && (b-a) < EPSILON
}

func newTestConfig() *strategy.FollowUptrendConfig {
	return &strategy.FollowUptrendConfig{
		IntervalSeconds: 1,
		ShortTermSize:   2,
		LongTermSize:    3,
		FundsRatio:      0.5,
		TargetProfitPer: 0.01,
		LossCutLowerPer: 0.05,
	}
}

func newTestStrategy(t *testing.T, rates []string) (*strategy.FollowUptrendStrategy, *trade.Facade, *memory.ExchangeStub) {
	t.Helper()

	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	facade := trade.NewFacade(
		&model.BtcJpy,
		stub,
		memory.NewRateRepository(10),
		memory.NewOrderRepository(),
	)

	logger := &memory.Logger{Level: memory.Error}
	s, err := strategy.NewFollowUptrendStrategy(facade, logger, newTestConfig())
	if err != nil {
		t.Fatal(err.Error())
	}
	return s, facade, stub
}

func TestFollowUptrendStrategy_Entry(t *testing.T) {
	s, facade, stub := newTestStrategy(t, []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,100.0,99.0",
		"2021-02-23T19:27:02Z,102.0,101.0",
		"2021-02-23T19:27:03Z,104.0,103.0",
		"2021-02-23T19:27:04Z,106.0,105.0",
	})

	ctx := context.Background()

	// レート履歴が足りない間は注文しない
	for i := 0; i < 3; i++ {
		if err := s.Trade(ctx); err != nil {
			t.Fatal(err.Error())
		}
		openOrders, err := facade.GetOpenOrders()
		if err != nil {
			t.Fatal(err.Error())
		}
		if len(openOrders) != 0 {
			t.Fatalf("GetOpenOrders() len = %d, want 0\ngot detail: %#v", len(openOrders), openOrders)
		}
		stub.NextStep()
	}

	// 上昇トレンド検出で成行買い＋指値売り
	if err := s.Trade(ctx); err != nil {
		t.Fatal(err.Error())
	}

	contracts, err := facade.GetContracts(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(contracts) != 1 {
		t.Fatalf("GetContracts() len = %d, want 1\ngot detail: %#v", len(contracts), contracts)
	}

	used, obtained := trade.CalcAmounts(&model.BtcJpy, contracts)
	if !floatEquals(used, 50000.0) {
		t.Errorf("CalcAmounts() used = %v, want %v", used, 50000.0)
	}
	if obtained <= 0 {
		t.Errorf("CalcAmounts() obtained = %v, want > 0", obtained)
	}

	openOrders, err := facade.GetOpenOrders()
	if err != nil {
		t.Fatal(err.Error())
	}

	sellOrders := []model.Order{}
	for _, o := range openOrders {
		if o.Type == model.Sell {
			sellOrders = append(sellOrders, o)
		}
	}
	if len(sellOrders) != 1 {
		t.Fatalf("sell order count = %d, want 1\ngot detail: %#v", len(sellOrders), openOrders)
	}
	if sellOrders[0].Rate == nil {
		t.Fatal("sell order rate is nil")
	}
	wantRate := 106.0 * 1.01
	if !floatEquals(*sellOrders[0].Rate, wantRate) {
		t.Errorf("sell order rate = %v, want %v", *sellOrders[0].Rate, wantRate)
	}
	if !floatEquals(sellOrders[0].Amount, obtained) {
		t.Errorf("sell order amount = %v, want %v", sellOrders[0].Amount, obtained)
	}

	jpy, err := facade.GetJpyBalance(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if !floatEquals(jpy.Amount, 50000.0) {
		t.Errorf("GetJpyBalance() = %v, want %v", jpy.Amount, 50000.0)
	}
}

func TestFollowUptrendStrategy_NoEntryOnDowntrend(t *testing.T) {
	s, facade, stub := newTestStrategy(t, []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,106.0,105.0",
		"2021-02-23T19:27:02Z,104.0,103.0",
		"2021-02-23T19:27:03Z,102.0,101.0",
		"2021-02-23T19:27:04Z,100.0,99.0",
	})

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := s.Trade(ctx); err != nil {
			t.Fatal(err.Error())
		}
		stub.NextStep()
	}

	openOrders, err := facade.GetOpenOrders()
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(openOrders) != 0 {
		t.Errorf("GetOpenOrders() len = %d, want 0\ngot detail: %#v", len(openOrders), openOrders)
	}

	contracts, err := facade.GetContracts(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(contracts) != 0 {
		t.Errorf("GetContracts() len = %d, want 0\ngot detail: %#v", len(contracts), contracts)
	}
}

func TestFollowUptrendStrategy_LossCut(t *testing.T) {
	s, facade, stub := newTestStrategy(t, []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,200.0,199.0",
		"2021-02-23T19:27:02Z,185.0,184.0",
	})

	ctx := context.Background()

	// 利確待ちの売り注文（取得レート200相当）
	if _, err := facade.SendSellOrder(ctx, 1.0, 202.0); err != nil {
		t.Fatal(err.Error())
	}

	// ロスカット基準より上なので保持
	if err := s.Trade(ctx); err != nil {
		t.Fatal(err.Error())
	}
	openOrders, err := facade.GetOpenOrders()
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(openOrders) != 1 {
		t.Fatalf("GetOpenOrders() len = %d, want 1\ngot detail: %#v", len(openOrders), openOrders)
	}

	// レート急落でロスカット（キャンセル＋成行売り）
	stub.NextStep()
	if err := s.Trade(ctx); err != nil {
		t.Fatal(err.Error())
	}

	stubOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(stubOrders) != 0 {
		t.Errorf("exchange open orders len = %d, want 0\ngot detail: %#v", len(stubOrders), stubOrders)
	}

	canceled, err := stub.GetCancelStatus(ctx, 1)
	if err != nil {
		t.Fatal(err.Error())
	}
	if !canceled {
		t.Errorf("GetCancelStatus() = %v, want true", canceled)
	}

	contracts, err := facade.GetContracts(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(contracts) != 1 {
		t.Fatalf("GetContracts() len = %d, want 1\ngot detail: %#v", len(contracts), contracts)
	}
	if contracts[0].Side != model.SellSide {
		t.Errorf("Contract.Side = %v, want %v", contracts[0].Side, model.SellSide)
	}
}
