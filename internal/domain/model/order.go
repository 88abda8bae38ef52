package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 確定済み注文。作成後は更新しない。
// order_numberは配送業者側にも渡すので必ず一意。
type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`

	//確定時点の合計金額スナップショット
	TotalOrderValue decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_order_value"`

	TrackingURL string    `gorm:"type:varchar(500)" json:"tracking_url"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
