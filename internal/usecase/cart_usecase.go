package usecase

import (
	repo "app/internal/repository"
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// カート表示用の商品情報（必要な項目だけ返す）
type CartProductResponse struct {
	SerialNumber      int64           `json:"serial_number"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	PriceWithShipping decimal.Decimal `json:"price_with_shipping"`
	Sizes             string          `json:"sizes"`
}

// line_total は「数量 × 現在価格」をその場で計算した値。
type CartItemResponse struct {
	Product   CartProductResponse `json:"product"`
	Quantity  int64               `json:"quantity"`
	LineTotal decimal.Decimal     `json:"line_total"`
}

// カート合計は保存せず、毎回明細から計算して返す。
type CartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"user"`
	Items  []CartItemResponse `json:"items"`
	Total  decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductSerial int64
	Quantity      int64
}

type MessageResponse struct {
	Message string `json:"message"`
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (MessageResponse, error) {
	if userID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity < 1 {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "quantity must be a positive integer")
	}

	// 商品チェック（公開のみ）
	_, err := u.productRepo.FindVisibleBySerial(ctx, in.ProductSerial)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusNotFound, "product not found or not visible")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartItemRepo.UpsertAdd(ctx, cart.ID, in.ProductSerial, in.Quantity); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: "Product added to cart"}, nil
}

// GetCart はカート取得。無い・空なら404。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart is empty")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out, err := u.buildCartResponse(ctx, cart.ID, userID)
	if err != nil {
		return CartResponse{}, err
	}
	if len(out.Items) == 0 {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart is empty")
	}

	return out, nil
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (MessageResponse, error) {
	if userID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return MessageResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return MessageResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: "Item removed from cart"}, nil
}

// cartIDの明細をまとめてCartResponseを作る。
// 合計は毎回「数量 × 商品の現在価格」から計算する。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64, userID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindBySerial(ctx, it.ProductSerial)
		if err == repo.ErrNotFound {
			//削除済み商品の明細は表示しない
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsVisible {
			continue
		}

		lineTotal := p.PriceWithShipping.Mul(decimal.NewFromInt(it.Quantity))

		respItems = append(respItems, CartItemResponse{
			Product: CartProductResponse{
				SerialNumber:      p.SerialNumber,
				Name:              p.Name,
				SKU:               p.SKU,
				PriceWithShipping: p.PriceWithShipping,
				Sizes:             p.Sizes,
			},
			Quantity:  it.Quantity,
			LineTotal: lineTotal,
		})

		total = total.Add(lineTotal)
	}

	return CartResponse{ID: cartID, UserID: userID, Items: respItems, Total: total}, nil
}
