package memory

import (
	"sync"

	"coincheck-bot/pkg/domain/model"
)

// RateRepository レートのオンメモリ保存
type RateRepository struct {
	maxSize   int
	mtx       sync.Mutex
	buyQueue  []model.OrderRate
	sellQueue []model.OrderRate
}

// NewRateRepository 生成
func NewRateRepository(maxSize int) *RateRepository {
	return &RateRepository{
		maxSize:   maxSize,
		buyQueue:  []model.OrderRate{},
		sellQueue: []model.OrderRate{},
	}
}

// AddOrderRate レート追加。maxSizeを超えた分は古い順に捨てる
func (r *RateRepository) AddOrderRate(o *model.OrderRate) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if o.Side == model.SellSide {
		r.sellQueue = append(r.sellQueue, *o)
		if len(r.sellQueue) > r.maxSize {
			r.sellQueue = r.sellQueue[1:]
		}
	} else {
		r.buyQueue = append(r.buyQueue, *o)
		if len(r.buyQueue) > r.maxSize {
			r.buyQueue = r.buyQueue[1:]
		}
	}
	return nil
}

// GetCurrentRate 現在のレートを取得
func (r *RateRepository) GetCurrentRate(pair *model.CurrencyPair, side model.OrderSide) *float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	queue := r.buyQueue
	if side == model.SellSide {
		queue = r.sellQueue
	}

	size := len(queue)
	if size == 0 {
		return nil
	}
	rate := queue[size-1].Rate
	return &rate
}

// GetRateHistory レートの履歴を取得
func (r *RateRepository) GetRateHistory(pair *model.CurrencyPair, side model.OrderSide) []float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	queue := r.buyQueue
	if side == model.SellSide {
		queue = r.sellQueue
	}

	h := []float64{}
	for _, o := range queue {
		h = append(h, o.Rate)
	}
	return h
}

// GetHistorySizeMax 最大容量取得
func (r *RateRepository) GetHistorySizeMax() int {
	return r.maxSize
}
