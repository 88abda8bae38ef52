package model

import "time"

// ユーザーの追加プロフィール（1ユーザー1件）
type UserProfile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`

	//敬称（Mr/Ms など）
	Title string `gorm:"type:varchar(5)" json:"title"`

	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `gorm:"type:varchar(255)" json:"address"`
	Country     string     `gorm:"type:varchar(50)" json:"country"`
	City        string     `gorm:"type:varchar(50)" json:"city"`
	Zip         string     `gorm:"type:varchar(10)" json:"zip"`
	PhotoURL    string     `gorm:"type:varchar(500)" json:"photo_url"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
