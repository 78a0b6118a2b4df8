package memory

import (
	"sort"
	"sync"

	"coincheck-bot/pkg/domain/model"
)

// OrderRepository 注文のオンメモリ保存
type OrderRepository struct {
	mtx      sync.Mutex
	orders   map[uint64]model.Order
	statuses map[uint64]model.OrderStatus
}

// NewOrderRepository 生成
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:   map[uint64]model.Order{},
		statuses: map[uint64]model.OrderStatus{},
	}
}

// UpsertOrders 注文を未決済として登録・更新
func (r *OrderRepository) UpsertOrders(orders []model.Order) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, o := range orders {
		r.orders[o.ID] = o
		r.statuses[o.ID] = model.Open
	}
	return nil
}

// GetOpenOrders 未決済の注文を取得
func (r *OrderRepository) GetOpenOrders() ([]model.Order, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	oo := []model.Order{}
	for id, o := range r.orders {
		if r.statuses[id] == model.Open {
			oo = append(oo, o)
		}
	}
	sort.Slice(oo, func(i, j int) bool { return oo[i].ID < oo[j].ID })
	return oo, nil
}

// UpdateStatus 注文状態を更新
func (r *OrderRepository) UpdateStatus(orderID uint64, status model.OrderStatus) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.statuses[orderID] = status
	return nil
}
