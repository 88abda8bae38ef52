package model

import "time"

// 注文明細。確定時のカート1行につき1行のスナップショット。
type OrderItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64     `gorm:"not null;index" json:"order_id"`
	ProductSerial int64     `gorm:"not null;index;column:product_serial" json:"product_serial"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
