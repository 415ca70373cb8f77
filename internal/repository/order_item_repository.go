package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	FindByID(ctx context.Context, itemID int64) (model.OrderItem, error)

	// 同一商品はプラス
	UpsertByOrderAndProduct(ctx context.Context, orderID int64, productID int64, addQty int64, unitPriceSnapshot int64, nameSnapshot string) (model.OrderItem, error)
	UpdateQuantity(ctx context.Context, itemID int64, qty int64) error
	DeleteByID(ctx context.Context, itemID int64) error
	DeleteByOrderID(ctx context.Context, orderID int64) error
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	//明細がそのユーザーのカートに属しているか
	IsOwnedByUserCart(ctx context.Context, itemID int64, userID int64) (bool, error)
}
