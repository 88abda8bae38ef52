package model

import "time"

// 商品カテゴリ
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`

	//アクセサリ系カテゴリかどうか
	IsAccessory bool `gorm:"not null;default:false" json:"is_accessory"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カテゴリ配下のサブカテゴリ
// 同名サブカテゴリは別カテゴリなら許す
type SubCategory struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID int64  `gorm:"not null;uniqueIndex:uq_category_subname" json:"category_id"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex:uq_category_subname" json:"name"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
