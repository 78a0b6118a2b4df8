package memory_test

import (
	"context"
	"strings"
	"testing"

	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/infrastructure/memory"
)

func TestExchangeStub_NotContract_5step(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,200.0,199.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 199.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:            model.Buy,
		Pair:            model.BtcJpy,
		Amount:          &amount,
		Rate:            &rate,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	stub.NextStep()
	stub.NextStep()
	stub.NextStep()
	stub.NextStep()

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) != 1 {
		t.Errorf("OpenOrders count is wrong\nwant: 1\ngot: %d\ngot detail: %#v", len(openOrders), openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 0 {
		t.Errorf("Contracts count is wrong\nwant: 0\ngot: %d\ngot detail: %#v", len(contracts), contracts)
	}
	contains := false
	for _, c := range contracts {
		if c.OrderID == order.ID {
			contains = true
		}
	}
	if contains {
		t.Errorf("Contract contains is wrong\nwant: false\ngot: %v\ngot detai: %#v", contains, contracts)
	}
}

func TestExchangeStub_CloseBuyOrder_1step(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,202.0,201.0",
		"2021-02-23T19:27:02Z,201.0,200.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 201.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:            model.Buy,
		Pair:            model.BtcJpy,
		Amount:          &amount,
		Rate:            &rate,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	stub.NextStep()

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) > 0 {
		t.Errorf("OpenOrders is not empty\ngot: %#v", openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 1 {
		t.Errorf("Contracts count is wrong\nwant: 1\ngot: %d\ngot detail: %#v", len(contracts), contracts)
	}
	contains := false
	for _, c := range contracts {
		if c.OrderID == order.ID {
			contains = true
		}
	}
	if !contains {
		t.Errorf("Contract is not contains order\ncontracts: %#v", contracts)
	}
}

func TestExchangeStub_CloseBuyOrder_2step(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,202.0,201.0",
		"2021-02-23T19:27:02Z,201.0,200.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 201.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:            model.Buy,
		Pair:            model.BtcJpy,
		Amount:          &amount,
		Rate:            &rate,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	stub.NextStep()
	stub.NextStep()

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) > 0 {
		t.Errorf("OpenOrders is not empty\ngot: %#v", openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 1 {
		t.Errorf("Contracts count is wrong\nwant: 1\ngot: %d\ngot detail: %#v", len(contracts), contracts)
	}
	contains := false
	for _, c := range contracts {
		if c.OrderID == order.ID {
			contains = true
		}
	}
	if !contains {
		t.Errorf("Contract is not contains order\ncontracts: %#v", contracts)
	}
}

func TestExchangeStub_CloseSellOrder_1step(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,200.0,199.0",
		"2021-02-23T19:27:02Z,201.0,200.0",
		"2021-02-23T19:27:02Z,202.0,201.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 200.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:            model.Sell,
		Pair:            model.BtcJpy,
		Amount:          &amount,
		Rate:            &rate,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	stub.NextStep()

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) > 0 {
		t.Errorf("OpenOrders is not empty\ngot: %#v", openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 1 {
		t.Errorf("Contracts count is wrong\nwant: 1\ngot: %d\ngot detail: %#v", len(contracts), contracts)
	}
	contains := false
	for _, c := range contracts {
		if c.OrderID == order.ID {
			contains = true
		}
	}
	if !contains {
		t.Errorf("Contract is not contains order\ncontracts: %#v", contracts)
	}
}

func TestExchangeStub_CloseSellOrder_2step(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,200.0,199.0",
		"2021-02-23T19:27:02Z,201.0,200.0",
		"2021-02-23T19:27:02Z,202.0,201.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 200.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:            model.Sell,
		Pair:            model.BtcJpy,
		Amount:          &amount,
		Rate:            &rate,
		MarketBuyAmount: nil,
		StopLossRate:    nil,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	stub.NextStep()
	stub.NextStep()

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) > 0 {
		t.Errorf("OpenOrders is not empty\ngot: %#v", openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 1 {
		t.Errorf("Contracts count is wrong\nwant: 1\ngot: %d\ngot detail: %#v", len(contracts), contracts)
	}
	contains := false
	for _, c := range contracts {
		if c.OrderID == order.ID {
			contains = true
		}
	}
	if !contains {
		t.Errorf("Contract is not contains order\ncontracts: %#v", contracts)
	}
}

func TestExchangeStub_CancelOrder(t *testing.T) {
	rates := []string{
		"日付, 販売所買い価格, 販売所売り価格",
		"2021-02-23T19:27:01Z,200.0,199.0",
		"2021-02-23T19:27:02Z,200.0,199.0",
	}
	r := strings.NewReader(strings.Join(rates, "\n"))
	stub, err := memory.NewExchangeStub(r, 0)
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx := context.Background()
	var amount, rate float64 = 1.0, 190.0
	order, err := stub.PostOrder(ctx, &model.NewOrder{
		Type:   model.Buy,
		Pair:   model.BtcJpy,
		Amount: &amount,
		Rate:   &rate,
	})
	if err != nil {
		t.Fatal(err.Error())
	}

	id, err := stub.DeleteOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err.Error())
	}
	if id != order.ID {
		t.Errorf("DeleteOrder() id = %d, want %d", id, order.ID)
	}

	canceled, err := stub.GetCancelStatus(ctx, order.ID)
	if err != nil {
		t.Fatal(err.Error())
	}
	if !canceled {
		t.Errorf("GetCancelStatus() = %v, want true", canceled)
	}

	openOrders, err := stub.GetOpenOrders(ctx)
	if err != nil {
		t.Errorf("error occured in GetOpenOrders\nerror: %v", err)
	}
	if len(openOrders) > 0 {
		t.Errorf("OpenOrders is not empty\ngot: %#v", openOrders)
	}

	contracts, err := stub.GetContracts(ctx)
	if err != nil {
		t.Errorf("error occured in GetContracts\nerror: %v", err)
	}
	if len(contracts) != 0 {
		t.Errorf("Contracts count is wrong\nwant: 0\ngot: %d", len(contracts))
	}
}
