package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//公開商品のみ（画像付き）
	ListVisible(ctx context.Context) ([]model.Product, error)
	ListVisibleByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error)
	ListVisibleBySubCategoryID(ctx context.Context, subCategoryID int64) ([]model.Product, error)

	FindBySerial(ctx context.Context, serial int64) (model.Product, error)
	//公開商品だけを対象にした取得（カート追加用）
	FindVisibleBySerial(ctx context.Context, serial int64) (model.Product, error)

	//同カテゴリ・同サブカテゴリの商品（自分自身を除く、最大limit件）
	ListRelated(ctx context.Context, p model.Product, limit int) ([]model.Product, error)

	//SKUをキーに作成または更新（CSVインポート用）
	UpsertBySKU(ctx context.Context, p model.Product) (model.Product, bool, error)
	AddImageIfAbsent(ctx context.Context, productSerial int64, imageURL string) error
}

// カテゴリ・サブカテゴリの取得と採番。
type CategoryRepository interface {
	FindByNameFold(ctx context.Context, name string) (model.Category, error)
	GetOrCreateByName(ctx context.Context, name string) (model.Category, error)

	FindSubCategoryByNameFold(ctx context.Context, categoryID int64, name string) (model.SubCategory, error)
	GetOrCreateSubCategory(ctx context.Context, categoryID int64, name string) (model.SubCategory, error)
}
