package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	//新しい注文が先頭
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
}
