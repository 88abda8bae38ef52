package repository

import (
	"app/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（プロフィールも同一トランザクションで作る）
	Create(ctx context.Context, user *model.User, profile *model.UserProfile) error
	// IDからユーザーを1件取得する。見つからなければ(nil, nil)。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。見つからなければ(nil, nil)。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//電話番号からユーザーを一件取得する。見つからなければ(nil, nil)。
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error)
	// 最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
}
