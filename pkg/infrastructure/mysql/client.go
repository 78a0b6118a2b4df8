package mysql

import (
	"fmt"
	"log"
	"time"

	"coincheck-bot/pkg/domain/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Client MySQL用クライアント
type Client struct {
	db *gorm.DB
}

// NewClient MySQL用クライアントの生成
func NewClient(userName, password, dbHost string, dbPort int, dbName string) *Client {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8&parseTime=True&loc=Local", userName, password, dbHost, dbPort, dbName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Got error when connect database, the error is '%v'", err)
	}

	return &Client{
		db: db,
	}
}

// UpsertOrders 注文情報の新規登録・更新
func (c *Client) UpsertOrders(orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	records := []Order{}
	for _, order := range orders {
		records = append(records, *NewOrder(&order, model.Open))
	}

	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
}

// GetOpenOrders 未決済の注文情報を取得
func (c *Client) GetOpenOrders() ([]model.Order, error) {
	records := []Order{}
	if err := c.db.Where("status = ?", int(model.Open)).Find(&records).Error; err != nil {
		return nil, err
	}

	orders := []model.Order{}
	for _, record := range records {
		order, err := record.ToDomainModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

// UpdateStatus 注文ステータスの更新
func (c *Client) UpdateStatus(orderID uint64, status model.OrderStatus) error {
	return c.db.Model(Order{}).Where("id = ?", orderID).Update("status", int(status)).Error
}

// AddMarket 市場情報の登録
func (c *Client) AddMarket(m *model.Market) error {
	return c.db.Create(NewMarket(m)).Error
}

// GetMarkets 市場情報の取得
func (c *Client) GetMarkets(pair *model.CurrencyPair, duration *time.Duration) ([]model.Market, error) {
	records := []Market{}

	query := c.db.Where("pair = ?", pair.String())
	if duration != nil {
		border := time.Now().Add(-1 * *duration)
		query = query.Where("recorded_at > ?", border)
	}
	if err := query.Order("recorded_at").Find(&records).Error; err != nil {
		return nil, err
	}

	markets := []model.Market{}
	for _, record := range records {
		market, err := record.ToDomainModel()
		if err != nil {
			return nil, err
		}
		markets = append(markets, *market)
	}

	return markets, nil
}
