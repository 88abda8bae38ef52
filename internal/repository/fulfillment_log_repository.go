package repository

import (
	"context"

	"app/internal/domain/model"
)

// 配送業者とのやり取りの証跡を残す約束。
type FulfillmentLogRepository interface {
	Create(ctx context.Context, log model.FulfillmentLog) error
	ListNeedsReconcile(ctx context.Context) ([]model.FulfillmentLog, error)
}
