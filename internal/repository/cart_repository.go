package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	//カートの明細を全削除（注文確定後にだけ使う）
	Clear(ctx context.Context, cartID int64) error
}
