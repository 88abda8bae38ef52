package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品。SKUは全体で一意。
// 価格は送料・税込みの decimal で保持する。
type Product struct {
	SerialNumber int64 `gorm:"primaryKey;autoIncrement;column:serial_number" json:"serial_number"`

	//外部向け商品コード（未指定なら PROD-<serial> を採番）
	ProductID string `gorm:"type:varchar(50);uniqueIndex" json:"product_id"`

	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	Design string `gorm:"type:varchar(255)" json:"design"`
	SKU    string `gorm:"type:varchar(100);not null;uniqueIndex;column:sku" json:"sku"`

	//Tシャツ・マグなどの種別
	ProductType string `gorm:"type:varchar(100)" json:"product_type"`

	PriceWithShipping decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_with_shipping"`

	//カンマ区切りのサイズ一覧（例: S,M,L,XL）
	Sizes string `gorm:"type:varchar(255)" json:"sizes"`

	CategoryID    *int64 `gorm:"index" json:"category_id"`
	SubCategoryID *int64 `gorm:"index" json:"subcategory_id"`

	//非公開商品は一覧・カート追加の対象外
	IsVisible bool `gorm:"not null;default:true" json:"is_visible"`

	Images []ProductImage `gorm:"foreignKey:ProductSerial" json:"images"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品画像（外部URLで保持）
type ProductImage struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductSerial int64  `gorm:"not null;index;column:product_serial" json:"product_serial"`
	ImageURL      string `gorm:"type:varchar(500)" json:"image_url"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
