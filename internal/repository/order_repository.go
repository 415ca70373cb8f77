package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//カート（status=Cart）は含めない
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateTotal(ctx context.Context, orderID int64, total int64) error

	// ユーザーのカートを取得し、無ければ作成。
	// 同時呼び出しでも1行に収束すること（unique index＋再取得）。
	GetOrCreateCartByUserID(ctx context.Context, userID int64) (model.Order, error)
	FindCartByUserID(ctx context.Context, userID int64) (model.Order, error)
}
