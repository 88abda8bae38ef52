package model

import "time"

type FulfillmentLogStatus string

const (
	//業者側では注文が作成済みだが、ローカルの確定に失敗した状態。
	//手動での突き合わせが必要。
	FulfillmentLogNeedsReconcile FulfillmentLogStatus = "NEEDS_RECONCILE"
	//突き合わせ済み。
	FulfillmentLogReconciled FulfillmentLogStatus = "RECONCILED"
)

// 配送業者とのやり取りの証跡。
// 「業者側に注文があるのにローカルに無い」を後から追えるように、
// 送信ペイロードと業者レスポンスをJSON文字列のまま残す。
type FulfillmentLog struct {
	ID          int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64                `gorm:"not null;index" json:"user_id"`
	OrderNumber string               `gorm:"type:varchar(50);not null;index" json:"order_number"`
	Status      FulfillmentLogStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	//JSON文字列で保存する。
	PayloadJSON string `gorm:"type:text" json:"payload_json"`

	//JSON文字列で保存する。
	ResponseJSON string `gorm:"type:text" json:"response_json"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
