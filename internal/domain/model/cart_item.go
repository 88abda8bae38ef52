package model

import "time"

// カートの明細。
// (cart_id, product_serial) で1行。同じ商品の追加は数量加算になる。
// 価格はスナップショットせず、表示のたびに商品の現在価格から計算する。
type CartItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID        int64     `gorm:"not null;index;uniqueIndex:uq_cart_product" json:"cart_id"`
	ProductSerial int64     `gorm:"not null;uniqueIndex:uq_cart_product;column:product_serial" json:"product_serial"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
