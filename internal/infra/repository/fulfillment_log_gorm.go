package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type FulfillmentLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewFulfillmentLogGormRepository(db *gorm.DB) *FulfillmentLogGormRepository {
	return &FulfillmentLogGormRepository{db: db}
}

func (r *FulfillmentLogGormRepository) Create(ctx context.Context, log model.FulfillmentLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// 突き合わせ待ちの証跡一覧
func (r *FulfillmentLogGormRepository) ListNeedsReconcile(ctx context.Context) ([]model.FulfillmentLog, error) {
	var logs []model.FulfillmentLog
	err := r.db.WithContext(ctx).
		Where("status = ?", model.FulfillmentLogNeedsReconcile).
		Order("id asc").
		Find(&logs).Error
	if err != nil {
		return []model.FulfillmentLog{}, err
	}
	return logs, nil
}
