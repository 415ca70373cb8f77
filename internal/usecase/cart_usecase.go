package usecase

import (
	"context"
	"net/http"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// CartUsecase は /api/cart の業務ロジックです。
// カートは status=Cart の注文行なので、OrderRepository/OrderItemRepositoryを使う。
// 変更系は1操作＝1トランザクション（途中で失敗したら合計も明細も元のまま）。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

// price は unit_price_snapshot（追加時点の価格）を返します。
type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

type CartResponse struct {
	ID         int64              `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice int64              `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Orders().GetOrCreateCartByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 加算後の数量が現在の在庫を超えるなら拒否。
// 他ユーザーのカート分は引かない（在庫の取り置きはしない。決着は注文確定時）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartItemResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Orders().GetOrCreateCartByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//商品チェック
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//既存数量を調べて、加算後の数量で在庫チェック
		items, err := r.OrderItems().ListByOrderID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var existingQty int64 = 0
		for _, it := range items {
			if it.ProductID == in.ProductID {
				existingQty = it.Quantity
				break
			}
		}

		newQty := existingQty + in.Quantity
		if newQty > p.Quantity {
			return NewHTTPError(http.StatusBadRequest, "insufficient stock")
		}

		// Upsert（同一商品は加算）
		// unit_price_snapshot は「追加時点の価格」を渡す
		item, err := r.OrderItems().UpsertByOrderAndProduct(ctx, cart.ID, in.ProductID, in.Quantity, p.Price, p.Name)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := recomputeCartTotal(ctx, r, cart.ID); err != nil {
			return err
		}

		out = CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.ProductNameSnapshot,
			Price:     item.UnitPriceSnapshot,
			Quantity:  item.Quantity,
			ImageURL:  p.ImageURL,
		}
		return nil
	})

	if err != nil {
		return CartItemResponse{}, err
	}
	return out, nil
}

// 数量変更（所有チェック＋在庫チェック）。
// 他人の明細は「存在しない扱い」で404。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, itemID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if userID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartItemResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.OrderItems().IsOwnedByUserCart(ctx, itemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		item, err := r.OrderItems().FindByID(ctx, itemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//商品の在庫チェック
		p, err := r.Products().FindByID(ctx, item.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if in.Quantity > p.Quantity {
			return NewHTTPError(http.StatusBadRequest, "insufficient stock")
		}

		if err := r.OrderItems().UpdateQuantity(ctx, itemID, in.Quantity); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := recomputeCartTotal(ctx, r, item.OrderID); err != nil {
			return err
		}

		out = CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.ProductNameSnapshot,
			Price:     item.UnitPriceSnapshot,
			Quantity:  in.Quantity,
		}
		return nil
	})

	if err != nil {
		return CartItemResponse{}, err
	}
	return out, nil
}

// 明細削除
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, itemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.OrderItems().IsOwnedByUserCart(ctx, itemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		item, err := r.OrderItems().FindByID(ctx, itemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByID(ctx, itemID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return recomputeCartTotal(ctx, r, item.OrderID)
	})
}

// 全明細削除（合計は0に）
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Orders().GetOrCreateCartByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateTotal(ctx, cart.ID, 0); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 明細のスナップショット価格×数量の合計を注文行に書き戻す。
func recomputeCartTotal(ctx context.Context, r repo.TxRepos, cartID int64) error {
	items, err := r.OrderItems().ListByOrderID(ctx, cartID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var total int64 = 0
	for _, it := range items {
		total += it.UnitPriceSnapshot * it.Quantity
	}

	if err := r.Orders().UpdateTotal(ctx, cartID, total); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// cartの明細をまとめてCartResponseを作る。
func buildCartResponse(ctx context.Context, r repo.TxRepos, cart model.Order) (CartResponse, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		resp := CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		}

		//商品が消えていたら画像なしのまま。DBエラーは握りつぶさない。
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if err == nil {
			resp.ImageURL = p.ImageURL
		} else if err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		respItems = append(respItems, resp)
		total += it.UnitPriceSnapshot * it.Quantity
	}

	return CartResponse{
		ID:         cart.ID,
		Items:      respItems,
		TotalPrice: total,
		CreatedAt:  cart.CreatedAt,
	}, nil
}
