package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品。Quantityは在庫数（負にならない）。
// 注文明細から参照されるため、削除はソフトデリート。
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Quantity    int64          `gorm:"not null" json:"quantity"`
	ImageURL    string         `gorm:"type:varchar(500);column:image_url" json:"image_url"`
	Featured    bool           `gorm:"not null;default:false" json:"featured"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
