package model

import "time"

// 注文明細。
// UnitPriceSnapshotは明細作成時点の価格。後から商品価格が変わっても
// 過去の注文金額は変わらない。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot   int64     `gorm:"not null;column:unit_price_snapshot" json:"price"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
